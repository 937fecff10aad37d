// Package api exposes the editor surface reachable from a plugin: handle
// types for buffers, windows and tabpages, vimscript execution and the
// structured option/info types the editor exchanges as dictionaries.
//
// Every function here is a thin user of the ffi call convention: arguments
// cross as non-owning views, results come back as owned values and are
// decoded through the bridge before being released.
package api
