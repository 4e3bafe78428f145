package main

type Config struct {
	HTTPPort   string `yaml:"httpPort"`
	LogLevel   string `yaml:"logLevel"`
	DBUsername string `yaml:"dbUsername"`
	DBPassword string `yaml:"dbPassword"`
	DBPort     string `yaml:"dbPort"`
	DBHost     string `yaml:"dbHost"`
	DBName     string `yaml:"dbName"`

	MatcherURL     string `yaml:"matcherURL"`     // base URL of the matcher service
	MatcherAPIKey  string `yaml:"matcherAPIKey"`  // optional API key for the matcher
	DefaultMatcher string `yaml:"defaultMatcher"` // matcher address used when a request names none

	ReferenceAssetID    string `yaml:"referenceAssetID"`    // triangulation pivot and acceptance anchor
	RateVolumeThreshold string `yaml:"rateVolumeThreshold"` // min pair volume (in reference units) for direct trust
}
