package services

import (
	"github.com/soltixdb/pindex/internal/config"
	"github.com/soltixdb/pindex/internal/ingest"
	"github.com/soltixdb/pindex/internal/logging"
	"github.com/soltixdb/pindex/internal/models"
)

// trendRecords yields a noisy upward baseline for 2014-2019 in every month,
// then a surge in 2020 and a collapse in 2021
func trendRecords(crimeType, neighbourhood string) ingest.SliceSource {
	var records ingest.SliceSource
	for month := 1; month <= 12; month++ {
		for year := 2014; year <= 2019; year++ {
			records = append(records, models.OccurrenceRecord{
				CrimeType:     crimeType,
				Neighbourhood: neighbourhood,
				Year:          year,
				Month:         month,
				Count:         10 + (year - 2014) + year%2,
			})
		}
		records = append(records, models.OccurrenceRecord{
			CrimeType: crimeType, Neighbourhood: neighbourhood, Year: 2020, Month: month, Count: 60,
		})
	}
	return records
}

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		FitRange:     models.YearRange{Start: 2014, End: 2019},
		PredictRange: models.YearRange{Start: 2020, End: 2021},
		Workers:      2,
		Significance: 95,
	}
}

func newTestService() *AnalysisService {
	return NewAnalysisService(logging.NewNop(), testAnalysisConfig())
}

func ingestOne(crimeType, neighbourhood string, year, month, count int) ingest.SliceSource {
	return ingest.SliceSource{{
		CrimeType:     crimeType,
		Neighbourhood: neighbourhood,
		Year:          year,
		Month:         month,
		Count:         count,
	}}
}
