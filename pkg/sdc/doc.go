// Package sdc implements a reentrant, type-polymorphic index over
// self-descriptive calibration data: documents that declare their own
// validity range and column layout inline, rather than through an external
// schema.
//
// The three pieces that compose it:
//
//   - [Index] holds (validity range, payload) entries and answers three
//     kinds of query: [Index.Updates] (every entry valid at a key, overlay
//     order), [Index.UpdatesDiff] (everything that changed between two
//     keys), and [Index.Latest] (the single most current entry).
//   - [Controller] drives one or more [Loader]s, splitting each document
//     they hand it into [BlockStruct]s via the grammar subpackage and
//     indexing each block's validity range, typed by its declared data
//     type — see [TypedIndex].
//   - [RecordType] plus the free functions [Load] and [GetLatest] stream a
//     block's raw rows, lazily, into caller-defined Go values.
//
// Example usage:
//
//	c := sdc.NewController(sdc.IntKeyTraits())
//	c.AddLoader(sdc.NewGrammarLoader(fileloader.New("calib", "/data/calib"), sdc.IntKeyTraits(), sdc.DefaultGrammar()))
//
//	if err := c.Add("run100.csv"); err != nil {
//	    return err
//	}
//
//	gains, err := sdc.GetLatest(c, gainRecordType, runNumber, false)
package sdc
