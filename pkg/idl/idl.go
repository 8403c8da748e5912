// Package idl holds the schema document describing a program's instructions,
// accounts and types for off-chain clients.
package idl

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"
)

// Document is the top-level schema of one program.
type Document struct {
	Version      string        `json:"version" yaml:"version"`
	Name         string        `json:"name" yaml:"name"`
	Instructions []Instruction `json:"instructions" yaml:"instructions"`
	Accounts     []TypeDef     `json:"accounts" yaml:"accounts"`
	Types        []TypeDef     `json:"types" yaml:"types"`
	Metadata     Metadata      `json:"metadata" yaml:"metadata"`
}

type Instruction struct {
	Name         string       `json:"name" yaml:"name"`
	Docs         []string     `json:"docs,omitempty" yaml:"docs,omitempty"`
	Accounts     []Account    `json:"accounts" yaml:"accounts"`
	Args         []Arg        `json:"args" yaml:"args"`
	Discriminant Discriminant `json:"discriminant" yaml:"discriminant"`
}

// Account describes one positional account of an instruction.
type Account struct {
	Name     string `json:"name" yaml:"name"`
	IsMut    bool   `json:"isMut" yaml:"isMut"`
	IsSigner bool   `json:"isSigner" yaml:"isSigner"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"` // structural role
	Desc     string `json:"desc,omitempty" yaml:"desc,omitempty"`
}

type Arg struct {
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`
}

type Discriminant struct {
	Type  string `json:"type" yaml:"type"`
	Value uint8  `json:"value" yaml:"value"`
}

// TypeDef is an account (object) or plain type definition.
type TypeDef struct {
	Name string      `json:"name" yaml:"name"`
	Docs []string    `json:"docs,omitempty" yaml:"docs,omitempty"`
	Type TypeDefBody `json:"type" yaml:"type"`
}

const (
	KindStruct = "struct"
	KindEnum   = "enum"
)

type TypeDefBody struct {
	Kind     string    `json:"kind" yaml:"kind"`
	Fields   []Field   `json:"fields,omitempty" yaml:"fields,omitempty"`
	Variants []Variant `json:"variants,omitempty" yaml:"variants,omitempty"`
}

type Field struct {
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`
}

type Variant struct {
	Name  string `json:"name" yaml:"name"`
	Value int64  `json:"value" yaml:"value"`
}

type Metadata struct {
	Origin      string `json:"origin" yaml:"origin"`
	Fingerprint string `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// Fingerprint hashes the compact JSON form of the instructions, accounts and
// types with blake2b-256. Name, version and metadata do not contribute.
func (d *Document) Fingerprint() (string, error) {
	data, err := json.Marshal(struct {
		Instructions []Instruction `json:"instructions"`
		Accounts     []TypeDef     `json:"accounts"`
		Types        []TypeDef     `json:"types"`
	}{d.Instructions, d.Accounts, d.Types})
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
