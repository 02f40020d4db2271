// Package stream provides the pipeline stage that sits between the serial
// download loop and the consumers of a run.
//
// A Stage accepts one InputRecord at a time, runs it through a Transformer
// and emits exactly one ResultRecord before it accepts the next. Producers
// therefore throttle themselves simply by calling Write, which only returns
// once the item has been emitted or the stage has failed.
//
// Consumers observe three events:
//
//   - data: one ResultRecord per accepted item, in input order, delivered to
//     every registered Listener and on the Results channel
//   - end: the Results channel closes and Err returns nil
//   - error: the Results channel closes and Err returns the cause
//
// Exactly one of end or error happens per stage. Listeners run
// asynchronously; end is held back until all of them have returned so that a
// late listener failure is still reported as the single terminal error.
package stream
