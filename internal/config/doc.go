// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// A .env file, when present, is loaded into the environment first so that
// credentials can stay out of the YAML file:
//
//	api:
//	  api_key: ${KALSHI_API_KEY_ID}
//	  private_key_path: ${KALSHI_PRIVATE_KEY_PATH}
package config
