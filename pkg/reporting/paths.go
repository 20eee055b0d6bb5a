package reporting

import (
	"fmt"
	"os"
	"path/filepath"
)

// PortfolioDir is the artifact directory for one portfolio run:
// <outputDir>/<variant>/<x>_<y>_<z>.
func PortfolioDir(outputDir, variant string, x, y, z float64) string {
	return filepath.Join(outputDir, variant, fmt.Sprintf("%g_%g_%g", x, y, z))
}

// PortfolioFileName names the selection table artifact.
func PortfolioFileName(x, y, z float64) string {
	return fmt.Sprintf("port_%g_%g_%g.csv", x, y, z)
}

// AnalysisFileName names the aggregate analysis artifact.
func AnalysisFileName(x, y, z float64) string {
	return fmt.Sprintf("port_analysis_%g_%g_%g.csv", x, y, z)
}

// EnsureDirectoryExists creates the parent directory of path if needed.
func EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
