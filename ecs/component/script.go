package component

// Script attaches a tengo program that drives an entity.
type Script struct {
	Path   string
	Source []byte
	// Interval is the number of seconds between script runs.
	Interval float64
}

var ScriptComponent = NewComponent[Script]()
