// Package deps resolves the external programs a run needs from PATH.
package deps
