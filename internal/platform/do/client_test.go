package do

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/digitalocean/godo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient creates a Client backed by a test HTTP server speaking the
// DigitalOcean JSON API.
func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	g, err := godo.New(http.DefaultClient, godo.SetBaseURL(server.URL))
	require.NoError(t, err)
	return newWithGodo(g), server
}

func jsonResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func TestFindCluster(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/kubernetes/clusters", r.URL.Path)
		jsonResponse(w, 200, map[string]any{
			"kubernetes_clusters": []map[string]any{
				{"id": "c-1", "name": "acme-production", "region": "fra1", "status": map[string]any{"state": "running"}},
				{"id": "c-2", "name": "other", "region": "ams3"},
			},
		})
	})
	client, server := testClient(t, handler)
	defer server.Close()

	cluster, err := client.FindCluster(context.Background(), "acme-production")
	require.NoError(t, err)
	require.NotNil(t, cluster)
	assert.Equal(t, "c-1", cluster.ID)
	assert.Equal(t, "running", cluster.Status)

	missing, err := client.FindCluster(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEnsureCluster_ExistingIsSkip(t *testing.T) {
	var createCalled bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/v2/kubernetes/clusters":
			jsonResponse(w, 200, map[string]any{
				"kubernetes_clusters": []map[string]any{
					{"id": "c-1", "name": "acme-production", "region": "fra1"},
				},
			})
		case r.Method == "POST":
			createCalled = true
			w.WriteHeader(500)
		}
	})
	client, server := testClient(t, handler)
	defer server.Close()

	cluster, existed, err := client.EnsureCluster(context.Background(), ClusterRequest{
		Name: "acme-production", Region: "fra1", NodeSize: "s-4vcpu-8gb", NodeCount: 3,
	})
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "c-1", cluster.ID)
	assert.False(t, createCalled, "existing cluster must not trigger creation")
}

func TestEnsureCluster_CreatesWhenMissing(t *testing.T) {
	var createReq godo.KubernetesClusterCreateRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/v2/kubernetes/clusters":
			jsonResponse(w, 200, map[string]any{"kubernetes_clusters": []map[string]any{}})
		case r.Method == "GET" && r.URL.Path == "/v2/kubernetes/options":
			jsonResponse(w, 200, map[string]any{
				"options": map[string]any{
					"versions": []map[string]any{
						{"slug": "1.31.1-do.0", "kubernetes_version": "1.31.1"},
					},
				},
			})
		case r.Method == "POST" && r.URL.Path == "/v2/kubernetes/clusters":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&createReq))
			jsonResponse(w, 201, map[string]any{
				"kubernetes_cluster": map[string]any{
					"id": "c-new", "name": createReq.Name, "region": createReq.RegionSlug,
				},
			})
		default:
			w.WriteHeader(404)
		}
	})
	client, server := testClient(t, handler)
	defer server.Close()

	cluster, existed, err := client.EnsureCluster(context.Background(), ClusterRequest{
		Name: "acme-production", Region: "fra1", NodeSize: "s-4vcpu-8gb", NodeCount: 3,
		Tags: []string{"oceanforge"},
	})
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "c-new", cluster.ID)

	assert.Equal(t, "1.31.1-do.0", createReq.VersionSlug)
	require.Len(t, createReq.NodePools, 1)
	assert.Equal(t, "s-4vcpu-8gb", createReq.NodePools[0].Size)
	assert.Equal(t, 3, createReq.NodePools[0].Count)
}

func TestKubeconfig(t *testing.T) {
	kubeconfig := "apiVersion: v1\nkind: Config\n"
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/kubernetes/clusters/c-1/kubeconfig", r.URL.Path)
		w.WriteHeader(200)
		_, _ = w.Write([]byte(kubeconfig))
	})
	client, server := testClient(t, handler)
	defer server.Close()

	got, err := client.Kubeconfig(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, kubeconfig, string(got))
}

func TestEnsureSpacesKey_CreatesScopedKey(t *testing.T) {
	var createReq godo.SpacesKeyCreateRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/spaces/keys", r.URL.Path)
		switch r.Method {
		case "GET":
			jsonResponse(w, 200, map[string]any{"keys": []map[string]any{}})
		case "POST":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&createReq))
			jsonResponse(w, 201, map[string]any{
				"key": map[string]any{
					"name":       createReq.Name,
					"access_key": "DO00NEWKEY",
					"secret_key": "new-secret",
				},
			})
		}
	})
	client, server := testClient(t, handler)
	defer server.Close()

	key, existed, err := client.EnsureSpacesKey(context.Background(), "acme-tfstate", "acme-tfstate")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "DO00NEWKEY", key.AccessKey)
	assert.Equal(t, "new-secret", key.SecretKey)

	require.Len(t, createReq.Grants, 1)
	assert.Equal(t, "acme-tfstate", createReq.Grants[0].Bucket)
	assert.Equal(t, godo.SpacesKeyReadWrite, createReq.Grants[0].Permission)
}

func TestEnsureSpacesKey_ExistingIsSkip(t *testing.T) {
	var createCalled bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			jsonResponse(w, 200, map[string]any{
				"keys": []map[string]any{
					{"name": "acme-tfstate", "access_key": "DO00EXISTING"},
				},
			})
		case "POST":
			createCalled = true
			w.WriteHeader(500)
		}
	})
	client, server := testClient(t, handler)
	defer server.Close()

	key, existed, err := client.EnsureSpacesKey(context.Background(), "acme-tfstate", "acme-tfstate")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "DO00EXISTING", key.AccessKey)
	assert.Empty(t, key.SecretKey)
	assert.False(t, createCalled, "existing key must not trigger creation")
}

func TestEnsureProject(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			jsonResponse(w, 200, map[string]any{
				"projects": []map[string]any{
					{"id": "p-1", "name": "acme"},
				},
			})
		case "POST":
			var req godo.CreateProjectRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			jsonResponse(w, 201, map[string]any{
				"project": map[string]any{"id": "p-new", "name": req.Name},
			})
		}
	})
	client, server := testClient(t, handler)
	defer server.Close()

	id, existed, err := client.EnsureProject(context.Background(), "acme")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, "p-1", id)

	id, existed, err = client.EnsureProject(context.Background(), "new-project")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "p-new", id)
}
