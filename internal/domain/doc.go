// Package domain contains the core model for screepsdeploy: build and deploy
// configuration, located build artifacts, extracted loader bodies and deploy
// reports.
//
// The domain is transport- and persistence-agnostic: it does not depend on TOML/YAML
// parsing, net/http, or the filesystem. Infra/adapters map into/from these types.
package domain
