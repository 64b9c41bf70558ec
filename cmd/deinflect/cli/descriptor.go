package cli

import "os"

// loadDescriptorBytes reads the descriptor at path, or returns the
// bundled default Japanese descriptor when path is empty.
func loadDescriptorBytes(path string) ([]byte, error) {
	if path == "" {
		return defaultDescriptor()
	}
	return os.ReadFile(path)
}
