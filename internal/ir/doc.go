// Package ir provides the record model keyjoin datasets are loaded into.
//
// Every record is an IRObject. Values form a sealed sum type (IRNull,
// IRString, IRInt, IRBool, IRArray, IRObject); there is deliberately no float
// variant, so every value has exactly one canonical encoding and join keys
// compare byte-for-byte.
//
// Join keys are the RFC 8785 canonical JSON of a record field (see KeyOf):
// strings are NFC normalized and object keys sorted by UTF-16 code units, so
// "é" typed as one rune or as e + combining accent is the same key.
//
// ir imports nothing internal.
package ir
