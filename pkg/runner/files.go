package runner

import (
	"os"
	"time"

	"github.com/sourcegraph/conc/iter"
	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
)

type FileResult struct {
	Path          string
	Notifications []poikkeusinfo.DisruptionNotification
	Matched       []poikkeusinfo.DisruptionNotification
	Err           error
}

// ParseFiles parses and filters saved feed documents concurrently. Results
// are returned in the order of paths.
func ParseFiles(parser *poikkeusinfo.Parser, filter *poikkeusinfo.Filter, paths []string, now time.Time) []FileResult {
	return iter.Map(paths, func(path *string) FileResult {
		result := FileResult{Path: *path}

		file, err := os.Open(*path)
		if err != nil {
			result.Err = err
			return result
		}
		defer file.Close()

		result.Notifications, result.Err = parser.Parse(file, now)
		if result.Err == nil {
			result.Matched = filter.Filter(result.Notifications)
		}

		return result
	})
}
