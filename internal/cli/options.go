package cli

// Options is the root of the command line. Struct tags are interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Config string `short:"f" long:"config" description:"YAML configuration path or URL"`

	Match *MatchCmd `command:"match" description:"Print the best matching pattern of every input path (default command)"`
	Check *CheckCmd `command:"check" description:"Validate the configuration and print the effective settings"`

	env *env
}

// Init instantiates the sub-command referenced by name so that go-flags can populate its fields.
func (o *Options) Init(name string) {
	switch name {
	case matchCommand:
		o.Match = &MatchCmd{root: o}
	case checkCommand:
		o.Check = &CheckCmd{root: o}
	}
}
