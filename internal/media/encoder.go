package media

import (
	"context"
	"fmt"
	"strings"
)

const defaultEncoder = "libx264"

// hardware encoders in order of preference
var hardwareEncoders = []string{"h264_videotoolbox", "h264_nvenc"}

// DetectEncoder returns the best available H.264 encoder, falling back to
// libx264 when no hardware encoder is listed or ffmpeg cannot be queried.
func DetectEncoder(ctx context.Context, run Runner, ffmpeg string) string {
	out, err := run(ctx, ffmpeg, "-hide_banner", "-encoders")
	if err != nil {
		return defaultEncoder
	}
	listing := string(out)
	for _, enc := range hardwareEncoders {
		if strings.Contains(listing, enc) {
			return enc
		}
	}
	return defaultEncoder
}

// DefaultQuality picks a quality setting suited to the encoder.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}

// QualityArgs returns the rate-control arguments for encoder.
// VideoToolbox takes a bitrate of quality*100 kbit/s; NVENC a CQ level;
// libx264 a CRF.
func QualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default:
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}
