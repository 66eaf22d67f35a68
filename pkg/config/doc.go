// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package config loads the coapopts configuration from COAPOPTS_*
// environment variables and builds the option registry from inline
// definitions and TOML option files.
package config
