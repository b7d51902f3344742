package pkgmgr

import (
	"regexp"
	"strconv"
	"strings"
)

// Status is the install phase reported by a progress line.
type Status string

const (
	StatusDownloading Status = "downloading"
	StatusInstalling  Status = "installing"
	StatusVerifying   Status = "verifying"
	StatusExtracting  Status = "extracting"
	StatusCompleted   Status = "completed"
)

// Progress is what ParseProgress extracts from one output line.
type Progress struct {
	Status Status
	// Percent is valid when HasPercent is set.
	Percent    int
	HasPercent bool
	// CurrentMB and TotalMB are set for "x MB / y MB (p%)" lines.
	CurrentMB float64
	TotalMB   float64
}

// Message renders the progress the way it is shown to the user.
func (p Progress) Message() string {
	title := string(p.Status)
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	switch {
	case p.TotalMB > 0:
		return "Downloading " + strconv.FormatFloat(p.CurrentMB, 'f', 1, 64) + " MB / " +
			strconv.FormatFloat(p.TotalMB, 'f', 1, 64) + " MB (" + strconv.Itoa(p.Percent) + "%)"
	case p.HasPercent:
		return title + " (" + strconv.Itoa(p.Percent) + "%)"
	default:
		return title + "..."
	}
}

var (
	barPattern      = regexp.MustCompile(`(?i)^\s*[█▓▒░\-\s]*\s*(\d+(?:\.\d+)?)%`)
	sizePattern     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*MB\s*/\s*(\d+(?:\.\d+)?)\s*MB\s*\((\d+)%\)`)
	progressPattern = regexp.MustCompile(`(?i)Progress:\s*(\d+)%`)
	downloadPattern = regexp.MustCompile(`(?i)Downloading\s+.*?(\d+)%`)
)

// ParseProgress recognises progress bars, size counters, percentages and
// status keywords in a package manager output line.
func ParseProgress(line string) (Progress, bool) {
	if m := barPattern.FindStringSubmatch(line); m != nil {
		return percentProgress(m[1]), true
	}
	if m := sizePattern.FindStringSubmatch(line); m != nil {
		cur, _ := strconv.ParseFloat(m[1], 64)
		total, _ := strconv.ParseFloat(m[2], 64)
		pct, _ := strconv.Atoi(m[3])
		return Progress{
			Status:     StatusDownloading,
			Percent:    clampPercent(pct),
			HasPercent: true,
			CurrentMB:  cur,
			TotalMB:    total,
		}, true
	}
	for _, re := range []*regexp.Regexp{progressPattern, downloadPattern} {
		if m := re.FindStringSubmatch(line); m != nil {
			return percentProgress(m[1]), true
		}
	}

	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "installing"):
		return Progress{Status: StatusInstalling}, true
	case strings.Contains(lower, "verifying"):
		return Progress{Status: StatusVerifying}, true
	case strings.Contains(lower, "extracting"):
		return Progress{Status: StatusExtracting}, true
	case strings.Contains(lower, "completed"), strings.Contains(lower, "successfully installed"):
		return Progress{Status: StatusCompleted, Percent: 100, HasPercent: true}, true
	}
	return Progress{}, false
}

func percentProgress(s string) Progress {
	f, _ := strconv.ParseFloat(s, 64)
	return Progress{Status: StatusDownloading, Percent: clampPercent(int(f)), HasPercent: true}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
