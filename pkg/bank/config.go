package bank

import (
	"github.com/reelprotocol/review-program/pkg/config"
	"github.com/reelprotocol/review-program/pkg/config/env"
	"github.com/reelprotocol/review-program/pkg/config/memory"
	"github.com/reelprotocol/review-program/pkg/config/wrapper"
)

const (
	envConfigPrefix = "BANK_"

	RentLamportsPerByteYearConfigEnvName = envConfigPrefix + "RENT_LAMPORTS_PER_BYTE_YEAR"
	defaultRentLamportsPerByteYear       = 3480

	RentExemptionYearsConfigEnvName = envConfigPrefix + "RENT_EXEMPTION_YEARS"
	defaultRentExemptionYears       = 2
)

type conf struct {
	rentLamportsPerByteYear config.Uint64
	rentExemptionYears      config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			rentLamportsPerByteYear: env.NewUint64Config(RentLamportsPerByteYearConfigEnvName, defaultRentLamportsPerByteYear),
			rentExemptionYears:      env.NewUint64Config(RentExemptionYearsConfigEnvName, defaultRentExemptionYears),
		}
	}
}

type testOverrides struct {
	rentLamportsPerByteYear uint64
	rentExemptionYears      uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		rentLamportsPerByteYear := overrides.rentLamportsPerByteYear
		if rentLamportsPerByteYear == 0 {
			rentLamportsPerByteYear = defaultRentLamportsPerByteYear
		}
		rentExemptionYears := overrides.rentExemptionYears
		if rentExemptionYears == 0 {
			rentExemptionYears = defaultRentExemptionYears
		}

		return &conf{
			rentLamportsPerByteYear: wrapper.NewUint64Config(memory.NewConfig(rentLamportsPerByteYear), defaultRentLamportsPerByteYear),
			rentExemptionYears:      wrapper.NewUint64Config(memory.NewConfig(rentExemptionYears), defaultRentExemptionYears),
		}
	}
}
