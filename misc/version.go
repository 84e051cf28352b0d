// Package misc keeps build time program identification.
package misc

// Values below are overwritten at link time with -ldflags "-X inkwell/misc.version=..."
var (
	appName = "inkwell"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
