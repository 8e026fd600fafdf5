package kubernetes

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/json"
)

// ListPods returns the names of all pods in the current context, in the
// order the API server returned them. Items without a name are kept as
// empty strings.
func (k *Kubectl) ListPods(ctx context.Context) ([]string, error) {
	out, err := k.run(ctx, "get", "pods", "-o", "json")
	if err != nil {
		return nil, err
	}

	var list corev1.PodList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		return nil, fmt.Errorf("failed to decode pod list: %w", err)
	}

	names := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		names = append(names, item.Name)
	}

	return names, nil
}
