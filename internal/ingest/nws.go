package ingest

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/imartinez/iberoweather/internal/models"
)

const (
	nwsFTPHost      = "tgftp.nws.noaa.gov:21"
	nwsStationIndex = "/data/nsd_cccc.txt"
	nwsProviderID   = "nws"
)

// SeedNWS downloads the NWS master station index over anonymous FTP and
// loads it. The index is semicolon-delimited with coordinates in
// degrees-minutes[-seconds] plus hemisphere (e.g. "38-26N").
func (s *Seeder) SeedNWS() (int, error) {
	return s.seedNWSFrom(nwsFTPHost, nwsStationIndex)
}

func (s *Seeder) seedNWSFrom(host, path string) (int, error) {
	conn, err := ftp.Dial(host, ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return 0, fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		return 0, fmt.Errorf("ftp login: %w", err)
	}

	resp, err := conn.Retr(path)
	if err != nil {
		return 0, fmt.Errorf("ftp retr %s: %w", path, err)
	}
	defer resp.Close()

	sts, err := ParseNWSIndex(resp)
	if err != nil {
		return 0, err
	}
	return s.load(nwsProviderID, sts)
}

// ParseNWSIndex parses the nsd_cccc station index. Fields per line:
// ICAO;block;station;name;state;country;region;lat;lon;ua-lat;ua-lon;elev;...
func ParseNWSIndex(r io.Reader) ([]models.Station, error) {
	var out []models.Station
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ";")
		if len(fields) < 12 {
			continue
		}
		icao := strings.TrimSpace(fields[0])
		if len(icao) != 4 {
			continue
		}
		lat := parseDMS(fields[7])
		lon := parseDMS(fields[8])
		if math.IsNaN(lat) || math.IsNaN(lon) {
			continue
		}
		elev, _ := strconv.ParseFloat(strings.TrimSpace(fields[11]), 64)
		out = append(out, models.Station{
			ProviderID: nwsProviderID,
			StationID:  icao,
			Name:       strings.TrimSpace(fields[3]),
			Latitude:   lat,
			Longitude:  lon,
			Elevation:  elev,
			Active:     true,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read station index: %w", err)
	}
	return out, nil
}

// parseDMS parses "dd-mm[-ss]H" coordinates, H one of NSEW.
func parseDMS(s string) float64 {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return math.NaN()
	}

	hemi := s[len(s)-1]
	sign := 1.0
	switch hemi {
	case 'N', 'E':
	case 'S', 'W':
		sign = -1.0
	default:
		return math.NaN()
	}

	parts := strings.Split(s[:len(s)-1], "-")
	if len(parts) < 2 || len(parts) > 3 {
		return math.NaN()
	}

	deg, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return math.NaN()
	}
	min, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return math.NaN()
	}
	sec := 0.0
	if len(parts) == 3 {
		if sec, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return math.NaN()
		}
	}
	return sign * (deg + min/60 + sec/3600)
}
