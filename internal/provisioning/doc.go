// Package provisioning runs the sequential cloud-resource workflow: Spaces
// bucket, SES SMTP credentials, GitHub secrets, and optionally the project
// and cluster.
//
// Phases run strictly in order. Each phase checks for an existing resource
// first and skips it with a warning instead of failing; any other error
// aborts the remaining sequence. There is no rollback and no retry.
package provisioning
