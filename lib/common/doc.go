// Package common holds the pieces shared by the palcube commands: the logger
// factory plugged into dragonboat's logger package and the tool configuration.
//
// All library packages obtain their logger with logger.GetLogger(name); the
// names are listed in Loggers. InitLoggers installs a factory that writes
// "LEVEL | name | message" lines to stderr and sets the level of all of them.
package common
