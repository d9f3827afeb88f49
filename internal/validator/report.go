package validator

// SceneReport holds the findings for one scene.
type SceneReport struct {
	Scene      string
	Steps      int
	Elements   int
	Violations []Violation
}

// Report holds the findings for every validated scene, in input order.
type Report struct {
	Scenes []SceneReport
}

// Count returns the total number of violations.
func (r *Report) Count() int {
	n := 0
	for _, s := range r.Scenes {
		n += len(s.Violations)
	}
	return n
}

// Errors returns the number of error-severity violations.
func (r *Report) Errors() int { return r.countLevel(SeverityError) }

// Warnings returns the number of warning-severity violations.
func (r *Report) Warnings() int { return r.countLevel(SeverityWarning) }

// OK reports whether no violation was found.
func (r *Report) OK() bool { return r.Count() == 0 }

// All returns every violation flattened in scene order.
func (r *Report) All() []Violation {
	var out []Violation
	for _, s := range r.Scenes {
		out = append(out, s.Violations...)
	}
	return out
}

// Scene looks up the report for a scene ID.
func (r *Report) Scene(id string) (SceneReport, bool) {
	for _, s := range r.Scenes {
		if s.Scene == id {
			return s, true
		}
	}
	return SceneReport{}, false
}

func (r *Report) countLevel(level Severity) int {
	n := 0
	for _, v := range r.All() {
		if v.Level() == level {
			n++
		}
	}
	return n
}
