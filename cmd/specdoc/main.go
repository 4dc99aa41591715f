// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The Matrix.org Foundation C.I.C.
// Source: github.com/matrix-org/specdoc

// specdoc generates CommonMark docs from Matrix specification schemas.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/matrix-org/specdoc"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/matrix-org/specdoc"
	_buildTime string
)

// cliOptions describes specdoc CLI flags and subcommands.
type cliOptions struct {
	Version  versionCommand  `command:"version" description:"Print version information"`
	Event    eventCommand    `command:"event2md" description:"Render event schemas to markdown"`
	API      apiCommand      `command:"api2md" description:"Render a Swagger API file to markdown"`
	Build    buildCommand    `command:"build" description:"Render a whole specification corpus"`
	Template templateCommand `command:"template" description:"Print built-in markdown template"`
}

// processFlags groups schema processing flags shared by all render commands.
type processFlags struct {
	LenientRefs  bool `long:"lenient-refs" description:"Substitute empty objects for missing $ref targets instead of failing"`
	StrictTitles bool `long:"strict-titles" description:"Fail on objects without a title instead of substituting NO_TITLE"`
	Verbose      bool `short:"v" long:"verbose" description:"Log per-file progress"`
}

// renderFlags groups markdown rendering flags shared by all render commands.
type renderFlags struct {
	TemplatePath string `short:"f" long:"template-file" description:"Path to custom markdown template (.gotmpl)"`
	HTML         bool   `long:"html" description:"Convert rendered markdown to HTML"`
}

// templateSelectFlags groups built-in template selection flags.
type templateSelectFlags struct {
	TemplateName string `short:"t" long:"template" description:"Built-in template" choice:"event" choice:"api" default:"event"`
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs the version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	command.runner.printVersionInfo()
	return nil
}

// eventCommand renders one event schema file, or a directory of them.
type eventCommand struct {
	runner *cliRunner

	ProcessFlags processFlags `group:"Schema Processing"`
	RenderFlags  renderFlags  `group:"Markdown Render"`
	ExamplesDir  string       `short:"e" long:"examples-dir" description:"Directory of event example files to attach"`

	Args struct {
		Input  string `positional-arg-name:"input" description:"Event schema file or directory" required:"yes"`
		Output string `positional-arg-name:"output" description:"Output file or directory (optional; stdout when omitted)"`
	} `positional-args:"yes"`
}

// Execute runs the event2md subcommand.
func (command *eventCommand) Execute(_ []string) error {
	return command.runner.runEventToMarkdown(command)
}

// apiCommand renders one Swagger API file.
type apiCommand struct {
	runner *cliRunner

	ProcessFlags processFlags `group:"Schema Processing"`
	RenderFlags  renderFlags  `group:"Markdown Render"`
	GroupName    string       `short:"n" long:"name" description:"API group name (defaults to the file stem)"`

	Args struct {
		Input  string `positional-arg-name:"input" description:"Swagger API file" required:"yes"`
		Output string `positional-arg-name:"output" description:"Output markdown file (optional; stdout when omitted)"`
	} `positional-args:"yes"`
}

// Execute runs the api2md subcommand.
func (command *apiCommand) Execute(_ []string) error {
	return command.runner.runAPIToMarkdown(command)
}

// buildCommand renders a whole specification corpus into an output directory.
type buildCommand struct {
	runner *cliRunner

	ProcessFlags processFlags      `group:"Schema Processing"`
	RenderFlags  renderFlags       `group:"Markdown Render"`
	EventsDir    string            `long:"events-dir" description:"Event schema directory relative to root" default:"event-schemas/schema"`
	ExamplesDir  string            `long:"examples-dir" description:"Event example directory relative to root" default:"event-schemas/examples"`
	APIDirs      map[string]string `long:"api" description:"Swagger API directory and group suffix as dir:suffix (repeatable)"`

	Args struct {
		Root   string `positional-arg-name:"root" description:"Specification corpus root directory" required:"yes"`
		Output string `positional-arg-name:"output-dir" description:"Output directory" default:"."`
	} `positional-args:"yes"`
}

// Execute runs the build subcommand.
func (command *buildCommand) Execute(_ []string) error {
	return command.runner.runBuild(command)
}

// templateCommand exports a built-in markdown template.
type templateCommand struct {
	runner *cliRunner

	TemplateFlags templateSelectFlags `group:"Template Select"`

	Args struct {
		Output string `positional-arg-name:"output" description:"Output template file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`
}

// Execute runs the template subcommand.
func (command *templateCommand) Execute(_ []string) error {
	return command.runner.runTemplate(command.TemplateFlags.TemplateName, command.Args.Output)
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "specdoc"
	}

	programName = filepath.Base(programName)
	runner := cliRunner{
		programName: programName,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// newBuild constructs a build context from shared processing flags, with
// logs going to the runner's stderr stream.
func (runner *cliRunner) newBuild(flags processFlags) *specdoc.Build {
	level := slog.LevelWarn
	if flags.Verbose {
		level = slog.LevelInfo
	}

	return specdoc.NewBuild(specdoc.BuildOptions{
		LenientRefs:  flags.LenientRefs,
		StrictTitles: flags.StrictTitles,
		Logger: slog.New(slog.NewTextHandler(runner.stderr, &slog.HandlerOptions{
			Level: level,
		})),
	})
}

// renderOptions constructs render options from shared rendering flags.
func renderOptions(flags renderFlags) (specdoc.RenderOptions, error) {
	opt := specdoc.RenderOptions{HTML: flags.HTML}

	if flags.TemplatePath != "" {
		text, err := os.ReadFile(flags.TemplatePath)
		if err != nil {
			return opt, fmt.Errorf("read template file %q: %w", flags.TemplatePath, err)
		}

		opt.TemplateText = string(text)
	}

	return opt, nil
}

// outputExtension picks the rendered file extension.
func outputExtension(flags renderFlags) string {
	if flags.HTML {
		return ".html"
	}

	return ".md"
}

// runEventToMarkdown renders one event schema file, or every m.* schema in
// a directory, attaching examples when an examples directory is given.
func (runner *cliRunner) runEventToMarkdown(command *eventCommand) error {
	build := runner.newBuild(command.ProcessFlags)

	opt, err := renderOptions(command.RenderFlags)
	if err != nil {
		return err
	}

	examples := map[string][]any{}
	if command.ExamplesDir != "" {
		examples, err = build.LoadEventExamples(command.ExamplesDir)
		if err != nil {
			return fmt.Errorf("load event examples: %w", err)
		}
	}

	info, err := os.Stat(command.Args.Input)
	if err != nil {
		return fmt.Errorf("stat input %q: %w", command.Args.Input, err)
	}

	if !info.IsDir() {
		schema, err := build.ReadEventSchema(command.Args.Input)
		if err != nil {
			return err
		}

		rendered, err := specdoc.RenderEvent(schema, examples[schema.Type], opt)
		if err != nil {
			return fmt.Errorf("render event: %w", err)
		}

		return runner.writeOutput(rendered, command.Args.Output)
	}

	if command.Args.Output == "" {
		return errors.New("rendering a schema directory requires an output directory")
	}

	schemas, err := build.LoadEventSchemas(command.Args.Input)
	if err != nil {
		return fmt.Errorf("load event schemas: %w", err)
	}

	if err := os.MkdirAll(command.Args.Output, 0o750); err != nil {
		return fmt.Errorf("create output dir %q: %w", command.Args.Output, err)
	}

	for name, schema := range schemas {
		rendered, err := specdoc.RenderEvent(schema, examples[schema.Type], opt)
		if err != nil {
			return fmt.Errorf("render event %s: %w", name, err)
		}

		path := filepath.Join(command.Args.Output, name+outputExtension(command.RenderFlags))
		if err := os.WriteFile(path, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("write %q: %w", path, err)
		}
	}

	return nil
}

// runAPIToMarkdown renders one Swagger API file.
func (runner *cliRunner) runAPIToMarkdown(command *apiCommand) error {
	build := runner.newBuild(command.ProcessFlags)

	opt, err := renderOptions(command.RenderFlags)
	if err != nil {
		return err
	}

	groupName := command.GroupName
	if groupName == "" {
		stem := strings.TrimSuffix(filepath.Base(command.Args.Input), ".yaml")
		groupName = strings.ReplaceAll(stem, "-", "_")
	}

	group, err := build.LoadSwaggerAPI(command.Args.Input, groupName)
	if err != nil {
		return err
	}

	rendered, err := specdoc.RenderAPI(group, opt)
	if err != nil {
		return fmt.Errorf("render API: %w", err)
	}

	return runner.writeOutput(rendered, command.Args.Output)
}

// runBuild renders a whole corpus: every event schema and API group becomes
// one output file. Loading problems are aggregated so a single broken
// schema does not hide the rest, and everything loadable still renders.
func (runner *cliRunner) runBuild(command *buildCommand) error {
	build := runner.newBuild(command.ProcessFlags)

	opt, err := renderOptions(command.RenderFlags)
	if err != nil {
		return err
	}

	config := specdoc.CorpusConfig{
		EventSchemaDir:  filepath.Join(command.Args.Root, command.EventsDir),
		EventExampleDir: filepath.Join(command.Args.Root, command.ExamplesDir),
	}

	if len(command.APIDirs) > 0 {
		config.APIDirs = make(map[string]string, len(command.APIDirs))
		for dir, suffix := range command.APIDirs {
			config.APIDirs[filepath.Join(command.Args.Root, dir)] = suffix
		}
	}

	units, loadErr := build.LoadCorpus(config)

	if err := os.MkdirAll(command.Args.Output, 0o750); err != nil {
		return fmt.Errorf("create output dir %q: %w", command.Args.Output, err)
	}

	extension := outputExtension(command.RenderFlags)

	for name, schema := range units.Events {
		rendered, err := specdoc.RenderEvent(schema, units.EventExamples[schema.Type], opt)
		if err != nil {
			return fmt.Errorf("render event %s: %w", name, err)
		}

		path := filepath.Join(command.Args.Output, name+extension)
		if err := os.WriteFile(path, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("write %q: %w", path, err)
		}
	}

	for name, group := range units.APIs {
		rendered, err := specdoc.RenderAPI(group, opt)
		if err != nil {
			return fmt.Errorf("render API %s: %w", name, err)
		}

		path := filepath.Join(command.Args.Output, name+extension)
		if err := os.WriteFile(path, []byte(rendered), 0o600); err != nil {
			return fmt.Errorf("write %q: %w", path, err)
		}
	}

	if loadErr != nil {
		return fmt.Errorf("corpus loaded with errors: %w", loadErr)
	}

	return nil
}

// runTemplate writes the selected built-in template to stdout or file.
func (runner *cliRunner) runTemplate(templateName, outputPath string) error {
	tpl, err := specdoc.BuiltinTemplate(templateName)
	if err != nil {
		return fmt.Errorf("load built-in template %q: %w", templateName, err)
	}

	return runner.writeOutput(tpl, outputPath)
}

// writeOutput writes rendered text to the given file, or stdout when the
// path is empty.
func (runner *cliRunner) writeOutput(text, outputPath string) error {
	if strings.TrimSpace(outputPath) == "" {
		if _, err := io.WriteString(runner.stdout, text); err != nil {
			return fmt.Errorf("write to stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(outputPath, []byte(text), 0o600); err != nil {
		return fmt.Errorf("write file %q: %w", outputPath, err)
	}

	return nil
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Version.runner = runner
	options.Event.runner = runner
	options.API.runner = runner
	options.Build.runner = runner
	options.Template.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}

	return nil
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"event2md": strings.TrimSpace(fmt.Sprintf(`
Render event schemas to markdown.
The input is one schema file, or a directory of m.* schema files rendered into an output directory.

Examples:
> $ %s event2md event-schemas/schema/m.room.member > m.room.member.md
> $ %s event2md -e event-schemas/examples event-schemas/schema docs/events
`, programName, programName)),
		"api2md": strings.TrimSpace(fmt.Sprintf(`
Render one Swagger API description to markdown.
References inside the file are resolved relative to its location.

Examples:
> $ %s api2md api/client-server/rooms.yaml > rooms.md
> $ %s api2md --name rooms_cs api/client-server/rooms.yaml docs/rooms.md
`, programName, programName)),
		"build": strings.TrimSpace(fmt.Sprintf(`
Render a whole specification corpus into an output directory.
Event schemas, their examples and every configured Swagger API directory are processed together; all loading failures are reported at the end.

Examples:
> $ %s build --api api/client-server:cs . docs
> $ %s build --html --lenient-refs --api api/client-server:cs --api api/server-server:ss . docs
`, programName, programName)),
		"template": strings.TrimSpace(fmt.Sprintf(`
Print built-in markdown template text (`+"`event` or `api`"+`).
Use it as a starting point for a custom template file.

Examples:
> $ %s template > event.gotmpl
> $ %s template -t api templates/api.gotmpl
`, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

// printVersionInfo writes build version details to the runner's stdout.
func (runner *cliRunner) printVersionInfo() {
	_, _ = fmt.Fprintf(runner.stdout, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, os.Args[0], Version, Commit, BuildTime)
}
