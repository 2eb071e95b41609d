// Package tracking models partner position samples and the rules for accepting them.
package tracking
