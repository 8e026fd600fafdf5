package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illumination-k/kubectl-copylogs/pkg/kubernetes"
	"github.com/illumination-k/kubectl-copylogs/pkg/sources"
)

const podListJSON = `{"items":[
	{"metadata":{"name":"tikv-0"}},
	{"metadata":{"name":"tikv-worker-1"}},
	{"metadata":{"name":"tiflash-pod"}},
	{"metadata":{"name":"other-pod"}}
]}`

// executeRoot runs the root command against mockExec and returns stdout and the error
func executeRoot(t *testing.T, mockExec *kubernetes.MockExecutor, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommandWithExecutor(mockExec)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

func TestRoot_UnknownSourceMakesNoCalls(t *testing.T) {
	mockExec := kubernetes.NewMockExecutor()

	_, err := executeRoot(t, mockExec, "--sources", "tikv,pd,etcd", "-d", t.TempDir())

	require.Error(t, err)
	assert.Equal(t, "unknown sources: etcd, pd", err.Error())
	assert.Equal(t, ExitUsage, ExitCode(err))
	assert.Empty(t, mockExec.GetCommands())
}

func TestRoot_EmptySelection(t *testing.T) {
	mockExec := kubernetes.NewMockExecutor()

	_, err := executeRoot(t, mockExec, "-s", " , ", "-d", t.TempDir())

	require.ErrorIs(t, err, sources.ErrInvalidSelection)
	assert.Equal(t, "no sources selected", err.Error())
	assert.Equal(t, ExitUsage, ExitCode(err))
	assert.Empty(t, mockExec.GetCommands())
}

func TestRoot_UnknownFlagIsUsageError(t *testing.T) {
	mockExec := kubernetes.NewMockExecutor()

	_, err := executeRoot(t, mockExec, "--bogus")

	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
	assert.Empty(t, mockExec.GetCommands())
}

func TestRoot_InvalidLogLevelIsUsageError(t *testing.T) {
	mockExec := kubernetes.NewMockExecutor()

	_, err := executeRoot(t, mockExec, "--log-level", "loud")

	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
	assert.Empty(t, mockExec.GetCommands())
}

func TestRoot_PodListFailure(t *testing.T) {
	mockExec := kubernetes.NewMockExecutor()
	mockExec.SetResponse("get pods", "", &kubernetes.CommandError{
		Args:   []string{"kubectl", "get", "pods", "-o", "json"},
		Stderr: "error: You must be logged in to the server (Unauthorized)",
	})

	_, err := executeRoot(t, mockExec, "-d", t.TempDir())

	require.ErrorIs(t, err, kubernetes.ErrCommandFailed)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Len(t, mockExec.GetCommands(), 1)
}

func TestRoot_SelectsOnlyMatchingTikvPods(t *testing.T) {
	baseDir := t.TempDir()
	mockExec := kubernetes.NewMockExecutor()
	mockExec.SetResponse("get pods -o json", podListJSON, nil)
	mockExec.SetResponse("exec tikv-0 -- find /var/lib/tikv/log", "/var/lib/tikv/log/tikv.log\n", nil)

	stdout, err := executeRoot(t, mockExec, "--sources", "tikv, tikv,tikv", "--output-dir", baseDir)

	require.NoError(t, err)
	assert.Equal(t, ExitOK, ExitCode(err))
	assert.DirExists(t, filepath.Join(baseDir, "tikv-0"))
	assert.NoDirExists(t, filepath.Join(baseDir, "tikv-worker-1"))
	assert.NoDirExists(t, filepath.Join(baseDir, "other-pod"))
	assert.NoDirExists(t, filepath.Join(baseDir, "tiflash-pod"))
	assert.Contains(t, stdout, "copied 1 log file(s) from tikv-0")

	commands := mockExec.GetCommands()
	require.Len(t, commands, 3)
	assert.Equal(t, []string{"get", "pods", "-o", "json"}, commands[0].Args)
}

func TestRoot_ProcessesInRegistryOrder(t *testing.T) {
	baseDir := t.TempDir()
	mockExec := kubernetes.NewMockExecutor()
	mockExec.SetResponse("get pods -o json", podListJSON, nil)
	mockExec.SetResponse("exec tiflash-pod -c serverlog -- find", "/data0/logs/a:1.log\n/data0/logs/sub/b.log\n", nil)
	mockExec.SetResponse("exec tiflash-pod -c serverlog -- cat /data0/logs/a:1.log", "one", nil)
	mockExec.SetResponse("exec tiflash-pod -c serverlog -- cat /data0/logs/sub/b.log", "two", nil)
	mockExec.SetResponse("exec tikv-0 -- find", "", nil)

	stdout, err := executeRoot(t, mockExec, "-s", "s3clean,tiflash,tikv", "-d", baseDir)

	require.NoError(t, err)
	assert.Equal(t,
		"no log files found in /var/lib/tikv/log for tikv-0\n"+
			"copied 2 log file(s) from tiflash-pod -> "+filepath.Join(baseDir, "tiflash-pod")+"\n"+
			"no s3clean pods found\n",
		stdout)

	content, err := os.ReadFile(filepath.Join(baseDir, "tiflash-pod", "a:1.log"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(content))
	content, err = os.ReadFile(filepath.Join(baseDir, "tiflash-pod", "sub", "b.log"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(content))
}

func TestRoot_CommandFailureStopsLaterSources(t *testing.T) {
	baseDir := t.TempDir()
	mockExec := kubernetes.NewMockExecutor()
	mockExec.SetResponse("get pods -o json", `{"items":[{"metadata":{"name":"tikv-0"}},{"metadata":{"name":"s3clean-0"}}]}`, nil)
	mockExec.SetResponse("exec tikv-0 -- find", "", &kubernetes.CommandError{
		Args:   []string{"kubectl", "exec", "tikv-0"},
		Stderr: "container not found",
	})

	_, err := executeRoot(t, mockExec, "-d", baseDir)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Equal(t, "command failed: kubectl exec tikv-0\ncontainer not found", err.Error())
	assert.NoDirExists(t, filepath.Join(baseDir, "s3clean-0"))
	assert.Len(t, mockExec.GetCommands(), 2)
}

func TestRoot_GlobalFlagsReachKubectl(t *testing.T) {
	mockExec := kubernetes.NewMockExecutor()
	mockExec.SetResponse("--context", `{"items":[]}`, nil)

	cmd := NewRootCommandWithExecutor(mockExec)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--kubectl", "oc", "--context", "prod", "-n", "tidb", "-s", "tikv", "-d", t.TempDir(), "--log-level", "error"})

	require.NoError(t, cmd.Execute())

	commands := mockExec.GetCommands()
	require.Len(t, commands, 1)
	assert.Equal(t, "oc", commands[0].Name)
	assert.Equal(t, []string{"--context", "prod", "-n", "tidb", "get", "pods", "-o", "json"}, commands[0].Args)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"selection", &sources.SelectionError{Unknown: []string{"pd"}}, ExitUsage},
		{"usage", &UsageError{Err: errors.New("unknown flag")}, ExitUsage},
		{"command", &kubernetes.CommandError{}, ExitFailure},
		{"other", errors.New("disk full"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
