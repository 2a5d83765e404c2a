// Package report builds the UI-ready view model from fetched snapshots.
package report

import (
	"fmt"
	"strings"

	"aqidash/internal/api"
	"aqidash/internal/flagger"
	"aqidash/internal/poller"
)

// Section constants to avoid hardcoded strings
const (
	SectionCurrent    = "current"
	SectionPollutants = "pollutants"
	SectionWeather    = "weather"
	SectionStations   = "stations"
	SectionAlerts     = "alerts"
)

// UI/view-model types (no printing here)
type Item struct {
	Key    string
	Label  string
	Value  float64
	Unit   string
	Status string
	Note   string
}

type Section struct {
	ID    string // current/pollutants/weather/stations/alerts
	Title string
	Items []Item
}

type Report struct {
	Sections   []Section
	Provenance string
	Headline   string
	RiskScore  int
}

// Build converts fetched snapshots into UI-ready sections. Any of the
// inputs except current may be nil.
func Build(current *api.CurrentAQI, stations []api.Station, alerts *api.AlertsFeed, flags *flagger.SnapshotFlags, prov poller.Provenance) Report {
	sec := map[string]*Section{
		SectionCurrent:    {ID: SectionCurrent, Title: "Air Quality"},
		SectionPollutants: {ID: SectionPollutants, Title: "Pollutants"},
		SectionWeather:    {ID: SectionWeather, Title: "Weather"},
		SectionStations:   {ID: SectionStations, Title: "Stations"},
		SectionAlerts:     {ID: SectionAlerts, Title: "Alerts"},
	}

	r := Report{Provenance: prov.String()}

	if current != nil {
		r.Headline = fmt.Sprintf("AQI %d (%s)", int(current.AQI), current.Category)

		sec[SectionCurrent].Items = append(sec[SectionCurrent].Items,
			Item{Key: "aqi", Label: "AQI", Value: current.AQI, Status: current.Category},
			Item{Key: "primary_pollutant", Label: "Primary Pollutant", Note: current.PrimaryPollutant},
			Item{Key: "advisory", Label: "Advisory", Note: current.HealthAdvisory},
			Item{Key: "station", Label: "Station", Note: current.Station.Name},
		)

		sec[SectionPollutants].Items = append(sec[SectionPollutants].Items,
			Item{Key: "pm25", Label: "PM2.5", Value: current.Pollutants.PM25, Unit: "µg/m³"},
			Item{Key: "pm10", Label: "PM10", Value: current.Pollutants.PM10, Unit: "µg/m³"},
			Item{Key: "no2", Label: "NO2", Value: current.Pollutants.NO2, Unit: "µg/m³"},
			Item{Key: "so2", Label: "SO2", Value: current.Pollutants.SO2, Unit: "µg/m³"},
			Item{Key: "co", Label: "CO", Value: current.Pollutants.CO, Unit: "mg/m³"},
			Item{Key: "o3", Label: "O3", Value: current.Pollutants.O3, Unit: "µg/m³"},
		)

		sec[SectionWeather].Items = append(sec[SectionWeather].Items,
			Item{Key: "temperature", Label: "Temperature", Value: current.Weather.Temperature, Unit: "°C"},
			Item{Key: "humidity", Label: "Humidity", Value: current.Weather.Humidity, Unit: "%"},
			Item{Key: "wind", Label: "Wind", Value: current.Weather.WindSpeed, Unit: "km/h", Note: current.Weather.WindDirection},
		)
	}

	for _, st := range stations {
		sec[SectionStations].Items = append(sec[SectionStations].Items, Item{
			Key:    strings.ReplaceAll(strings.ToLower(st.Name), " ", "_"),
			Label:  st.Name,
			Note:   fmt.Sprintf("AQI %s, %s, %s", st.AQI, st.PrimarySource, st.Trend),
			Status: st.Trend,
		})
	}

	if alerts != nil {
		for _, a := range alerts.Alerts {
			sec[SectionAlerts].Items = append(sec[SectionAlerts].Items, Item{
				Key:    fmt.Sprintf("alert_%d", a.ID),
				Label:  a.Title,
				Status: a.Type,
				Note:   a.Message,
			})
		}
	}

	if flags != nil {
		r.RiskScore = flags.RiskScore
		if flags.Explanation != "" {
			sec[SectionCurrent].Items = append(sec[SectionCurrent].Items,
				Item{Key: "findings", Label: "Findings", Note: flags.Explanation, Status: severityLabel(flags.SeverityLevel)})
		}
		if flags.FlagStubbleSeason {
			sec[SectionCurrent].Items = append(sec[SectionCurrent].Items,
				Item{Key: "stubble_season", Label: "Stubble Season", Note: "Crop residue burning season is active"})
		}
	}

	r.Sections = []Section{
		*sec[SectionCurrent],
		*sec[SectionPollutants],
		*sec[SectionWeather],
		*sec[SectionStations],
		*sec[SectionAlerts],
	}
	return r
}

func severityLabel(level int) string {
	switch level {
	case 3:
		return "critical"
	case 2:
		return "warning"
	case 1:
		return "notice"
	default:
		return "ok"
	}
}

func (r Report) SectionByID(id string) *Section {
	for i := range r.Sections {
		if r.Sections[i].ID == id {
			return &r.Sections[i]
		}
	}
	return nil
}

func (s Section) ItemByKey(key string) *Item {
	for i := range s.Items {
		if s.Items[i].Key == key {
			return &s.Items[i]
		}
	}
	return nil
}
