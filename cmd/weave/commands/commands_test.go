package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weave/cmd/weave/commands"
	"go.trai.ch/weave/internal/app"
	"go.trai.ch/weave/internal/build"
)

type fakeApp struct {
	generated *app.RunOptions
	checked   *app.RunOptions
	watched   *app.RunOptions
	cleaned   bool
	err       error
}

func (f *fakeApp) Generate(_ context.Context, opts app.RunOptions) error {
	f.generated = &opts
	return f.err
}

func (f *fakeApp) Check(_ context.Context, opts app.RunOptions) error {
	f.checked = &opts
	return f.err
}

func (f *fakeApp) Watch(_ context.Context, opts app.RunOptions) error {
	f.watched = &opts
	return f.err
}

func (f *fakeApp) Clean(_ context.Context) error {
	f.cleaned = true
	return f.err
}

type fakeLogger struct {
	json, verbose bool
}

func (l *fakeLogger) Debug(string)           {}
func (l *fakeLogger) Info(string)            {}
func (l *fakeLogger) Warn(string)            {}
func (l *fakeLogger) Error(error)            {}
func (l *fakeLogger) SetJSON(enable bool)    { l.json = enable }
func (l *fakeLogger) SetVerbose(enable bool) { l.verbose = enable }

func execute(t *testing.T, a *fakeApp, log *fakeLogger, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a, log)
	cli.SetArgs(args)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Generate(t *testing.T) {
	a := &fakeApp{}
	log := &fakeLogger{}

	_, err := execute(t, a, log, "generate", "-c", "app.yaml", "-o", "out", "-f", "-j", "4",
		"--injector", "AppInjector", "--injector", "AdminInjector", "--json", "-v")
	require.NoError(t, err)
	require.NotNil(t, a.generated)
	assert.Equal(t, app.RunOptions{
		ConfigPath: "app.yaml",
		OutDir:     "out",
		Injectors:  []string{"AppInjector", "AdminInjector"},
		Jobs:       4,
		Force:      true,
	}, *a.generated)
	assert.True(t, log.json)
	assert.True(t, log.verbose)
}

func TestCommands_GenerateDefaults(t *testing.T) {
	a := &fakeApp{}
	_, err := execute(t, a, &fakeLogger{}, "generate")
	require.NoError(t, err)
	assert.Equal(t, app.RunOptions{ConfigPath: "weave.yaml", OutDir: "gen"}, *a.generated)
}

func TestCommands_GenerateWatch(t *testing.T) {
	a := &fakeApp{}
	_, err := execute(t, a, &fakeLogger{}, "generate", "--watch", "-o", "out")
	require.NoError(t, err)
	assert.Nil(t, a.generated)
	require.NotNil(t, a.watched)
	assert.Equal(t, "out", a.watched.OutDir)
}

func TestCommands_Check(t *testing.T) {
	a := &fakeApp{}
	_, err := execute(t, a, &fakeLogger{}, "check", "--config", "other.yaml")
	require.NoError(t, err)
	require.NotNil(t, a.checked)
	assert.Equal(t, "other.yaml", a.checked.ConfigPath)
	assert.Nil(t, a.generated)
}

func TestCommands_Clean(t *testing.T) {
	a := &fakeApp{}
	_, err := execute(t, a, &fakeLogger{}, "clean")
	require.NoError(t, err)
	assert.True(t, a.cleaned)
}

func TestCommands_PropagatesErrors(t *testing.T) {
	a := &fakeApp{err: errors.New("simulated error")}
	_, err := execute(t, a, &fakeLogger{}, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated error")
}

func TestCommands_RejectsArguments(t *testing.T) {
	_, err := execute(t, &fakeApp{}, &fakeLogger{}, "check", "extra")
	require.Error(t, err)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &fakeApp{}, &fakeLogger{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "weave version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n", out)

	out, err = execute(t, &fakeApp{}, &fakeLogger{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "weave version "+build.Version)
}
