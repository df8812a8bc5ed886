// Package cronx centralizes the application's cron expression spec so config
// validation and the scheduler agree on exactly one format.
package cronx

import "github.com/robfig/cron/v3"

// StandardParser returns the application's standard cron parser.
//
// The parser uses the extended 6-field format including seconds:
// [second] [minute] [hour] [day-of-month] [month] [day-of-week],
// plus descriptors such as @daily and @every <duration>.
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate reports whether spec is a valid expression for StandardParser.
func Validate(spec string) error {
	_, err := StandardParser().Parse(spec)
	return err
}
