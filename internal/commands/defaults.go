package commands

// DefaultTransformations lists the built-in table commands in menu order.
func DefaultTransformations() []Transformation {
	return []Transformation{
		DisplayOriginal{},
		RestoreOriginal{},
		MergeColumns{},
		StringReplace{},
		JoinColumns{},
	}
}

// DefaultControls lists the built-in session commands in menu order.
func DefaultControls() []Control {
	return []Control{
		Save{},
		ApplyAll{},
		Skip{},
		Quit{},
	}
}

// DefaultRegistry builds a registry holding every built-in command.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultTransformations(), DefaultControls())
}
