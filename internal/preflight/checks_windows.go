//go:build windows

package preflight

import "os"

// checkAccess creates and removes a scratch file in path. Windows ACLs are
// not visible through the attribute bits.
func checkAccess(path string) error {
	scratch, err := os.CreateTemp(path, ".coloring-access-*")
	if err != nil {
		return err
	}
	name := scratch.Name()
	_ = scratch.Close()
	return os.Remove(name)
}
