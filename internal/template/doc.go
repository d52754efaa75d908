// Package template rewrites the GitOps template in place: placeholder
// substitution over tracked text files, the cluster directory rename, and
// ejection of template-only files once a project detaches from upstream.
package template
