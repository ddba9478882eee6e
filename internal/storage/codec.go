package storage

import (
	"encoding/json"
	"fmt"

	"github.com/sandeepkv93/tutord/internal/model"
)

// EncodeBlocks renders the persisted layout: one JSON array of blocks.
func EncodeBlocks(blocks []model.Block) ([]byte, error) {
	return json.MarshalIndent(nonNil(blocks), "", "  ")
}

// DecodeBlocks parses a block array. Only unparseable JSON and unknown value
// types are malformed; rule violations inside well-formed data are kept as
// stored and left to the mutation paths to reject.
func DecodeBlocks(raw []byte) ([]model.Block, error) {
	var out []model.Block
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	for i := range out {
		if out[i].Properties == nil {
			out[i].Properties = []model.Property{}
		}
	}
	return nonNil(out), nil
}

func EncodeHistory(history []model.Top3History) ([]byte, error) {
	return json.MarshalIndent(nonNil(history), "", "  ")
}

func DecodeHistory(raw []byte) ([]model.Top3History, error) {
	var out []model.Top3History
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	for _, h := range out {
		if !h.Date.Valid() {
			return nil, fmt.Errorf("%w: history date %q", ErrMalformed, h.Date)
		}
	}
	return nonNil(out), nil
}

// EncodeWorkspace is the export file format.
func EncodeWorkspace(w model.Workspace) ([]byte, error) {
	w.Blocks = nonNil(w.Blocks)
	w.Tags = nonNil(w.Tags)
	w.CustomViews = nonNil(w.CustomViews)
	w.History = nonNil(w.History)
	return json.MarshalIndent(w, "", "  ")
}

// DecodeWorkspace accepts either an export object or a bare block array.
func DecodeWorkspace(raw []byte) (model.Workspace, error) {
	var head json.RawMessage
	if err := json.Unmarshal(raw, &head); err != nil {
		return model.Workspace{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(head) > 0 && head[0] == '[' {
		blocks, err := DecodeBlocks(raw)
		if err != nil {
			return model.Workspace{}, err
		}
		return model.Workspace{Blocks: blocks}, nil
	}
	var envelope struct {
		Blocks      json.RawMessage    `json:"blocks"`
		Tags        []model.Tag        `json:"tags"`
		CustomViews []model.CustomView `json:"customViews"`
		History     json.RawMessage    `json:"history"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return model.Workspace{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	w := model.Workspace{Tags: nonNil(envelope.Tags), CustomViews: nonNil(envelope.CustomViews)}
	var err error
	if w.Blocks, err = decodeOptional(envelope.Blocks, DecodeBlocks); err != nil {
		return model.Workspace{}, err
	}
	if w.History, err = decodeOptional(envelope.History, DecodeHistory); err != nil {
		return model.Workspace{}, err
	}
	return w, nil
}

func decodeOptional[T any](raw json.RawMessage, decode func([]byte) ([]T, error)) ([]T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []T{}, nil
	}
	return decode(raw)
}
