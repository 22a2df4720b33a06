// Package models provides shared data structures for the Everest console.
//
// This package contains the Go mirror of the everest.percona.com/v1alpha1
// custom resources served by the console, the request/response shapes of the
// REST API and the sentinel errors shared by the server, the SDK and the CLI.
// Keeping them in one package lets every component import them without
// creating circular dependencies.
//
// The models in this package represent:
//   - DatabaseCluster: a managed database deployment
//   - DatabaseClusterBackup / DatabaseClusterRestore: backup and restore operations
//   - BackupStorage: an S3 or Azure location backups are written to
//   - MonitoringConfig: a PMM endpoint clusters report to (a "monitoring instance")
//   - DatabaseEngine: an installed operator with its available versions
//   - PodSchedulingPolicy: affinity rules applied to cluster components
//
// The resources are owned by the Kubernetes API server. The console only reads
// and writes them; it never reconciles them.
package models
