package sources

import "strings"

// Remote locations collected by the built-in sources
const (
	TiKVLogDir    = "/var/lib/tikv/log"
	TiFlashLogDir = "/data0/logs"
	S3CleanLog    = "/tmp/s3clean.log"
)

// Predicate reports whether a pod belongs to a source
type Predicate func(podName string) bool

// Contains matches pod names containing substr
func Contains(substr string) Predicate {
	return func(podName string) bool {
		return strings.Contains(podName, substr)
	}
}

// ContainsExcept matches pod names containing substr but not exclude
func ContainsExcept(substr, exclude string) Predicate {
	return func(podName string) bool {
		return strings.Contains(podName, substr) && !strings.Contains(podName, exclude)
	}
}

// Source is a named log collection task. LogDir and SingleFile may both be
// set, in which case both are copied.
type Source struct {
	Name string

	// Matches selects the pods this source applies to
	Matches Predicate

	// PodFilter describes Matches for display
	PodFilter string

	// LogDir is copied recursively, preserving its structure
	LogDir string

	// SingleFile is copied into the pod directory as DestName or its base name
	SingleFile string
	DestName   string

	// Container is passed as -c when set
	Container string

	// UseExecCopy forces the streaming strategy for every file
	UseExecCopy bool
}

// Registry returns the built-in sources in processing order.
// To add a pod type, append a Source here.
func Registry() []Source {
	return []Source{
		{
			Name:      "tikv",
			Matches:   ContainsExcept("tikv", "tikv-worker"),
			PodFilter: `contains "tikv", not "tikv-worker"`,
			LogDir:    TiKVLogDir,
		},
		{
			Name:      "tiflash",
			Matches:   ContainsExcept("tiflash", "tiflash-minio"),
			PodFilter: `contains "tiflash", not "tiflash-minio"`,
			LogDir:    TiFlashLogDir,
			Container: "serverlog",
			// TiFlash log names contain ':'
			UseExecCopy: true,
		},
		{
			Name:       "s3clean",
			Matches:    Contains("s3clean"),
			PodFilter:  `contains "s3clean"`,
			SingleFile: S3CleanLog,
		},
	}
}

// Names returns the names of registry in order
func Names(registry []Source) []string {
	names := make([]string, 0, len(registry))
	for _, src := range registry {
		names = append(names, src.Name)
	}
	return names
}

// FilterPods returns the pods matched by the source, keeping their order
func (s Source) FilterPods(pods []string) []string {
	var matched []string
	for _, pod := range pods {
		if s.Matches(pod) {
			matched = append(matched, pod)
		}
	}
	return matched
}
