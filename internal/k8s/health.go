// Package k8s provides the Kubernetes health probe behind the doctor command.
package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// FluxNamespace is where Flux installs its controllers.
const FluxNamespace = "flux-system"

// Client wraps the Kubernetes API operations the doctor uses.
type Client struct {
	clientset kubernetes.Interface
}

// NewClient creates a client from a kubeconfig file.
func NewClient(kubeconfigPath string) (*Client, error) {
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	return &Client{clientset: clientset}, nil
}

// NewClientFromClientset wires an arbitrary clientset; used by tests.
func NewClientFromClientset(clientset kubernetes.Interface) *Client {
	return &Client{clientset: clientset}
}

// Health is the cluster status the doctor reports.
type Health struct {
	NodesTotal    int
	NodesReady    int
	FluxInstalled bool
	FluxPodsReady int
	FluxPodsTotal int
}

// Ready reports whether everything the probe looks at is healthy.
func (h Health) Ready() bool {
	return h.NodesTotal > 0 &&
		h.NodesReady == h.NodesTotal &&
		h.FluxInstalled &&
		h.FluxPodsReady == h.FluxPodsTotal
}

// Probe collects node readiness and Flux controller status.
func (c *Client) Probe(ctx context.Context) (*Health, error) {
	health := &Health{}

	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	health.NodesTotal = len(nodes.Items)
	for _, node := range nodes.Items {
		if nodeReady(node) {
			health.NodesReady++
		}
	}

	_, err = c.clientset.CoreV1().Namespaces().Get(ctx, FluxNamespace, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return health, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check namespace %s: %w", FluxNamespace, err)
	}
	health.FluxInstalled = true

	pods, err := c.clientset.CoreV1().Pods(FluxNamespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in %s: %w", FluxNamespace, err)
	}
	health.FluxPodsTotal = len(pods.Items)
	for _, pod := range pods.Items {
		if pod.Status.Phase == corev1.PodRunning {
			health.FluxPodsReady++
		}
	}

	return health, nil
}

func nodeReady(node corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}
