// Package gamedata is the entity store accessor for an RPG Maker MZ project.
//
// A project keeps its database as JSON files under <project>/data:
//
//	Actors.json  Items.json  Weapons.json  Armors.json  Skills.json
//	System.json  MapInfos.json  Map001.json ... MapNNN.json
//
// Collections are JSON arrays whose slot 0 is null and whose other slots hold a
// record or null. Documents (System, maps) are single JSON objects.
//
// # Records
//
// Record keeps the top-level key order of an object and stores values as raw JSON.
// Loading and saving a file therefore only changes what an operation explicitly set;
// the engine's own key order and any plugin fields are preserved.
//
// # Persistence
//
// Every load reads the file from disk. Every save encodes the whole value with
// 2-space indentation and replaces the file atomically. Read-modify-write sequences
// run under a per-file lock (Store.Locked, UpdateCollection, UpdateDocument).
//
// # Errors
//
// IOError and ParseError come from file access. NotFoundError, ProtectedEntityError
// and OutOfBoundsError are raised by the domain packages and match ErrNotFound,
// ErrProtected and ErrOutOfBounds with errors.Is.
package gamedata
