// Package notification models persisted recipient notifications.
package notification
