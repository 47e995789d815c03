// Package document converts decoded bencode values into protocol agnostic
// document forms: generic Go values, JSON, MessagePack, and JMESPath query
// results.
//
// Byte strings are rendered as text in JSON and in the generic Go form, and as
// binary in MessagePack. Dictionary entries keep their decoded order wherever
// the target form is ordered.
package document
