// Package wire implements the client↔server wire protocol: a canonical
// compact binary encoding plus a JSON fallback accepted inbound for
// debugging, per spec.md §4.1.
package wire

import "driftboard/internal/board"

// ClientTag identifies the shape of a ClientMessage. Tag values are part
// of the wire contract and must not be renumbered once deployed.
type ClientTag uint8

const (
	ClientStrokeStart     ClientTag = 1
	ClientStrokePoints    ClientTag = 2
	ClientStrokeEnd       ClientTag = 3
	ClientErase           ClientTag = 4
	ClientRemove          ClientTag = 5
	ClientTransformStart  ClientTag = 6
	ClientTransformUpdate ClientTag = 7
	ClientTransformEnd    ClientTag = 8
	ClientClear           ClientTag = 9
	ClientUndo            ClientTag = 10
	ClientRedo            ClientTag = 11
	ClientLoad            ClientTag = 12
	ClientStrokeReplace   ClientTag = 13
)

// clientTagNames maps each tag to its wire-contract string (spec.md
// §4.1's tag names). The JSON fallback decoder uses the inverse map,
// clientNameTags.
var clientTagNames = map[ClientTag]string{
	ClientStrokeStart:     "stroke:start",
	ClientStrokePoints:    "stroke:points",
	ClientStrokeEnd:       "stroke:end",
	ClientErase:           "erase",
	ClientRemove:          "remove",
	ClientTransformStart:  "transform:start",
	ClientTransformUpdate: "transform:update",
	ClientTransformEnd:    "transform:end",
	ClientClear:           "clear",
	ClientUndo:            "undo",
	ClientRedo:            "redo",
	ClientLoad:            "load",
	ClientStrokeReplace:   "stroke:replace",
}

var clientNameTags = map[string]ClientTag{
	"stroke:start":     ClientStrokeStart,
	"stroke:points":    ClientStrokePoints,
	"stroke:end":       ClientStrokeEnd,
	"erase":            ClientErase,
	"remove":           ClientRemove,
	"transform:start":  ClientTransformStart,
	"transform:update": ClientTransformUpdate,
	"transform:end":    ClientTransformEnd,
	"clear":            ClientClear,
	"undo":             ClientUndo,
	"redo":             ClientRedo,
	"load":             ClientLoad,
	"stroke:replace":   ClientStrokeReplace,
}

// ClientMessage is a tagged union over every client→server frame. Only
// the fields relevant to Tag are populated; the rest are zero.
type ClientMessage struct {
	Tag ClientTag

	Stroke board.Stroke   // stroke:start
	ID     board.StrokeID // stroke:points, stroke:end, erase
	Points []board.Point  // stroke:points

	IDs []board.StrokeID // remove, transform:start, transform:update, transform:end
	Op  TransformOp      // transform:update

	Strokes []board.Stroke // load

	ReplaceStroke board.Stroke // stroke:replace
}

// ServerTag identifies the shape of a ServerMessage.
type ServerTag uint8

const (
	ServerSync            ServerTag = 1
	ServerStrokeStart     ServerTag = 2
	ServerStrokePoints    ServerTag = 3
	ServerStrokeEnd       ServerTag = 4
	ServerStrokeRemove    ServerTag = 5
	ServerStrokeRestore   ServerTag = 6
	ServerStrokeReplace   ServerTag = 7
	ServerTransformUpdate ServerTag = 8
	ServerClear           ServerTag = 9
)

var serverTagNames = map[ServerTag]string{
	ServerSync:            "sync",
	ServerStrokeStart:     "stroke:start",
	ServerStrokePoints:    "stroke:points",
	ServerStrokeEnd:       "stroke:end",
	ServerStrokeRemove:    "stroke:remove",
	ServerStrokeRestore:   "stroke:restore",
	ServerStrokeReplace:   "stroke:replace",
	ServerTransformUpdate: "transform:update",
	ServerClear:           "clear",
}

var serverNameTags = map[string]ServerTag{
	"sync":             ServerSync,
	"stroke:start":     ServerStrokeStart,
	"stroke:points":    ServerStrokePoints,
	"stroke:end":       ServerStrokeEnd,
	"stroke:remove":    ServerStrokeRemove,
	"stroke:restore":   ServerStrokeRestore,
	"stroke:replace":   ServerStrokeReplace,
	"transform:update": ServerTransformUpdate,
	"clear":            ServerClear,
}

// ServerMessage is a tagged union over every server→client frame.
type ServerMessage struct {
	Tag ServerTag

	Strokes []board.Stroke // sync

	Stroke board.Stroke   // stroke:start, stroke:restore, stroke:replace
	ID     board.StrokeID // stroke:points, stroke:end, stroke:remove
	Points []board.Point  // stroke:points

	IDs []board.StrokeID // transform:update
	Op  TransformOp      // transform:update
}
