package kubernetes

import (
	"fmt"

	"k8s.io/client-go/tools/clientcmd"
)

// ContextInfo describes the kubeconfig context kubectl will talk to
type ContextInfo struct {
	Name      string
	Cluster   string
	Namespace string
}

// ResolveContext loads kubeconfig the same way kubectl does and reports the
// context selected by opts. It only reads local files.
func ResolveContext(opts Options) (*ContextInfo, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if opts.Kubeconfig != "" {
		loadingRules.ExplicitPath = opts.Kubeconfig
	}

	overrides := &clientcmd.ConfigOverrides{
		CurrentContext: opts.Context,
	}
	overrides.Context.Namespace = opts.Namespace

	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)

	raw, err := clientConfig.RawConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	name := opts.Context
	if name == "" {
		name = raw.CurrentContext
	}
	kubeContext, exists := raw.Contexts[name]
	if !exists {
		return nil, fmt.Errorf("context %q not found in kubeconfig", name)
	}

	namespace, _, err := clientConfig.Namespace()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve namespace: %w", err)
	}

	return &ContextInfo{
		Name:      name,
		Cluster:   kubeContext.Cluster,
		Namespace: namespace,
	}, nil
}
