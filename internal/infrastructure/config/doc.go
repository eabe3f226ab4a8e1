// Package config handles loading and validating Matrix Portal Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with MATRIXPORTAL_* environment variables
//   - Validation of required fields
//   - Default value handling for a 64x32 matrix
//
// Security Considerations:
//   - Sensitive values (MQTT password, time service key, InfluxDB token)
//     should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Device.ID)
package config
