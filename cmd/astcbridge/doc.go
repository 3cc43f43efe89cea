// Command astcbridge compresses images to ASTC through the asynchronous
// encode bridge.
//
// Every image named on the command line is submitted to one shared worker
// pool at once, encoded by either the linked astcenc library or the astcenc
// tool, validated against the source dimensions, and written out as a .astc
// file. A summary table reports each request's outcome.
package main
