// Package config provides configuration structures and utilities for Cherpy.
// It defines the main configuration options for crawling a site, extracting
// content, and generating answers from it.
package config
