package version

import (
	"runtime/debug"
	"strings"
)

const (
	// Product is the name used in the default User-Agent.
	Product = "fluenthttp HttpClient"

	modulePath = "github.com/kbukum/fluenthttp"
)

// Set at build time using -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
)

var readBuildInfo = debug.ReadBuildInfo

// Info represents version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	IsRelease bool   `json:"is_release"`
}

// GetVersionInfo resolves the version from ldflags first, then from the
// build info of the binary embedding the module.
func GetVersionInfo() *Info {
	info := &Info{Version: Version, GitCommit: GitCommit}

	if bi, ok := readBuildInfo(); ok {
		if info.Version == "dev" {
			if v := moduleVersion(bi); v != "" {
				info.Version = v
			}
		}
		if info.GitCommit == "" {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.GitCommit = s.Value
					if len(info.GitCommit) > 7 {
						info.GitCommit = info.GitCommit[:7]
					}
				}
			}
		}
	}

	info.IsRelease = info.Version != "dev" && !strings.Contains(info.Version, "-")
	return info
}

func moduleVersion(bi *debug.BuildInfo) string {
	if bi.Main.Path == modulePath && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	for _, dep := range bi.Deps {
		if dep.Path == modulePath {
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return ""
}

// UserAgent returns the default User-Agent header value,
// "fluenthttp HttpClient v<version>".
func UserAgent() string {
	return Product + " v" + strings.TrimPrefix(GetVersionInfo().Version, "v")
}
