package ping

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const statisticsMarker = "---"

var (
	// summaryRegexp matches "4 packets transmitted, 4 received, 0% packet loss, time 3021ms".
	summaryRegexp = regexp.MustCompile(`(\d+)\s*packets transmitted,\s*(\d+)\s+received,\s*(\d+(?:\.\d+)?)% packet loss,\s*time\s+(\d+)ms`)
	// rttRegexp matches "rtt min/avg/max/mdev = 40.123/45.678/50.999/3.210 ms".
	rttRegexp = regexp.MustCompile(`rtt min/avg/max/mdev\s*=\s*(\d+(?:\.\d+)?)/(\d+(?:\.\d+)?)/(\d+(?:\.\d+)?)/(\d+(?:\.\d+)?)\s*ms`)
)

// Parser extracts an Answer from the output of iputils ping.
type Parser struct {
	Logger logrus.FieldLogger
}

var defaultParser = &Parser{}

// Parse extracts an Answer using a parser that logs to the standard logger.
func Parse(raw string) (Answer, bool) {
	return defaultParser.Parse(raw)
}

func (p *Parser) logger() logrus.FieldLogger {
	if p.Logger == nil {
		return logrus.StandardLogger()
	}
	return p.Logger
}

// Parse scans raw for the statistics block. It reports false when no packets summary line
// was recognised. Only the first recognised summary is kept, and scanning stops at the first
// rtt line whether or not it matched.
func (p *Parser) Parse(raw string) (answer Answer, found bool) {
	if raw == "" {
		return
	}

	inStatistics := false
	for _, line := range strings.Split(raw, "\n") {
		if !inStatistics {
			inStatistics = strings.HasPrefix(line, statisticsMarker)
			continue
		}

		switch {
		case strings.Contains(line, "packets"):
			if found {
				continue
			}
			a, ok := parseSummary(line)
			if !ok {
				p.logger().WithField("line", line).Debug("Unrecognised packets summary")
				continue
			}
			answer, found = a, true

		case strings.Contains(line, "rtt"):
			if !found {
				return
			}
			if !parseRTT(line, &answer) {
				p.logger().WithField("line", line).Debug("Unrecognised rtt summary")
			}
			return
		}
	}

	return
}

func parseSummary(line string) (a Answer, ok bool) {
	m := summaryRegexp.FindStringSubmatch(line)
	if m == nil {
		return
	}

	var err error
	if a.Transmitted, err = strconv.Atoi(m[1]); err != nil {
		return
	}
	if a.Received, err = strconv.Atoi(m[2]); err != nil {
		return
	}
	if a.Loss, err = strconv.ParseFloat(m[3], 64); err != nil {
		return
	}

	return a, true
}

// parseRTT fills the RTT fields of a only when all three values parse.
func parseRTT(line string, a *Answer) bool {
	m := rttRegexp.FindStringSubmatch(line)
	if m == nil {
		return false
	}

	var vals [3]float64
	for i := range vals {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return false
		}
		vals[i] = v
	}
	a.RTTMin, a.RTTAvg, a.RTTMax = vals[0], vals[1], vals[2]

	return true
}
