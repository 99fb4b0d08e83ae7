// Package buildinfo holds build-time metadata injected via -ldflags.
package buildinfo

// Version is the release tag for this build.
// Inject via: -X github.com/garyellow/merit-linebot-go/internal/buildinfo.Version=...
var Version = ""

// Commit is the git commit SHA for this build.
// Inject via: -X github.com/garyellow/merit-linebot-go/internal/buildinfo.Commit=...
var Commit = ""

// Release returns the identifier reported to Sentry and shown by the service banner.
// Builds without injected metadata report "dev".
func Release() string {
	switch {
	case Version != "" && Commit != "":
		return Version + "+" + shortCommit()
	case Version != "":
		return Version
	case Commit != "":
		return shortCommit()
	default:
		return "dev"
	}
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
