package server

import goversion "github.com/caarlos0/go-version"

const (
	appName        = "hrdesk"
	appDescription = "Human resources back office: employees, attendance, leave and payroll"
	appWebsite     = "https://github.com/hrdesk/hrdesk"
)

// BuildInfo is stamped at link time by cmd/server.
type BuildInfo struct {
	Version   string
	Commit    string
	Date      string
	BuiltBy   string
	TreeState string
}

func BuildVersion(b BuildInfo) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(appName, appDescription, appWebsite),
		func(i *goversion.Info) {
			if b.Version != "" {
				i.GitVersion = b.Version
			}
			if b.Commit != "" {
				i.GitCommit = b.Commit
			}
			if b.TreeState != "" {
				i.GitTreeState = b.TreeState
			}
			if b.Date != "" {
				i.BuildDate = b.Date
			}
			if b.BuiltBy != "" {
				i.BuiltBy = b.BuiltBy
			}
		},
	)
}
