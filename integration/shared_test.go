//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedGradekitPath holds the path to a shared gradekit binary built once for all tests.
	sharedGradekitPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getGradekitBinary returns the path to the gradekit binary, building it once if needed.
func getGradekitBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "gradekit-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		gradekitPath := filepath.Join(tempDir, "gradekit")
		buildCmd := exec.Command("go", "build", "-o", gradekitPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build gradekit: %v", err))
		}

		sharedGradekitPath = gradekitPath
	})

	return sharedGradekitPath
}

// runGradekitCommand runs the shared binary with the given args from the project root.
func runGradekitCommand(t *testing.T, args ...string) error {
	t.Helper()
	gradekitPath := getGradekitBinary()
	cmd := exec.Command(gradekitPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
