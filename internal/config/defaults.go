package config

import (
	"github.com/ivlev/explainer/internal/layout"
	"github.com/ivlev/explainer/internal/system"
)

const (
	defaultLayoutPath       = "layout.yaml"
	defaultScriptPath       = "narration.yaml"
	defaultVideoDir         = "media/videos"
	defaultAudioDir         = "audio"
	defaultOutputDir        = "output"
	defaultOverlapThreshold = 0.30
	defaultErrorRatio       = 0.60
	defaultPreviewWidth     = 1280
	defaultEngine           = "edge"
	defaultVoice            = "zh-CN-YunyangNeural"
	defaultRate             = "-5%"
	defaultVolume           = "+0%"
	defaultNarrationWorkers = 2
	defaultFFmpeg           = "ffmpeg"
	defaultFFprobe          = "ffprobe"
	defaultAudioBitrate     = "192k"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with project defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Layout:    defaultLayoutPath,
			Script:    defaultScriptPath,
			VideoDir:  defaultVideoDir,
			AudioDir:  defaultAudioDir,
			OutputDir: defaultOutputDir,
		},
		Frame: Frame{
			Width:  layout.DefaultFrameWidth,
			Height: layout.DefaultFrameHeight,
		},
		Validation: Validation{
			OverlapThreshold: defaultOverlapThreshold,
			ErrorRatio:       defaultErrorRatio,
			SkipAncestors:    true,
			Checks:           []string{"overlap", "bounds"},
			PreviewWidth:     defaultPreviewWidth,
		},
		Narration: Narration{
			Engine:   defaultEngine,
			Voice:    defaultVoice,
			Rate:     defaultRate,
			Volume:   defaultVolume,
			Parallel: defaultNarrationWorkers,
		},
		Media: Media{
			FFmpeg:       defaultFFmpeg,
			FFprobe:      defaultFFprobe,
			AudioBitrate: defaultAudioBitrate,
		},
		Logging: Logging{Level: defaultLogLevel},
		Workers: system.DefaultWorkers(),
	}
}

// FrameRect returns the configured frame as a layout rectangle.
func (c *Config) FrameRect() layout.Frame {
	return layout.NewFrame(c.Frame.Width, c.Frame.Height)
}
