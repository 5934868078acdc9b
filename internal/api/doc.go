// Package api provides the deployment platform REST API: one-click template
// deployment, the template catalog with likes and comments, stored
// credentials, and per-user deployment history.
package api
