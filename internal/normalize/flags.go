package normalize

import "fmt"

// Flags selects the independent body transformations. NoSpaces requires
// NoComments; CommentsOnly excludes every other flag.
type Flags struct {
	Uppercase    bool `yaml:"uppercase" mapstructure:"uppercase"`
	NoComments   bool `yaml:"no_comments" mapstructure:"no_comments"`
	NoSpaces     bool `yaml:"no_spaces" mapstructure:"no_spaces"`
	NoLiterals   bool `yaml:"no_literals" mapstructure:"no_literals"`
	CommentsOnly bool `yaml:"comments_only" mapstructure:"comments_only"`
}

// Full returns the flag set used for canonical comparison: upper-case,
// comments stripped, whitespace collapsed.
func Full() Flags {
	return Flags{Uppercase: true, NoComments: true, NoSpaces: true}
}

// ConfigError reports an invalid flag combination. It is detected before any
// scanning work starts.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// Validate checks the combination invariants.
func (f Flags) Validate() error {
	if f.NoSpaces && !f.NoComments {
		return &ConfigError{Msg: "no_spaces requires no_comments: collapsing whitespace around line comments would produce broken PL/SQL"}
	}
	if f.CommentsOnly && (f.Uppercase || f.NoComments || f.NoSpaces || f.NoLiterals) {
		return &ConfigError{Msg: "comments_only can not be combined with other normalization flags"}
	}
	return nil
}

// Set enables the named flag. Names match the command line and config file
// spellings; both dash and underscore forms are accepted.
func (f *Flags) Set(name string) error {
	switch name {
	case "uppercase":
		f.Uppercase = true
	case "no-comments", "no_comments":
		f.NoComments = true
	case "no-spaces", "no_spaces":
		f.NoSpaces = true
	case "no-literals", "no_literals":
		f.NoLiterals = true
	case "comments-only", "comments_only":
		f.CommentsOnly = true
	case "full":
		f.Uppercase, f.NoComments, f.NoSpaces = true, true, true
	default:
		return &ConfigError{Msg: fmt.Sprintf("unknown normalization flag %q", name)}
	}
	return nil
}
