package catalog

import (
	"bytes"
	"encoding/binary"

	"github.com/lindensheehy/CopsAndRobbers/cnr"
)

// Catalog values are compact varint records, in the order the fields are
// read back. Rounds is the only field that can be negative (-1 when depth
// was not tracked), so it is the one signed varint.

const (
	labelCop = iota
	labelRobber
	labelCaptured
)

func labelCode(label string) byte {
	switch label {
	case cnr.TurnLabelRobber:
		return labelRobber
	case cnr.TurnLabelCaptured:
		return labelCaptured
	}
	return labelCop
}

func labelString(code byte) string {
	switch code {
	case labelRobber:
		return cnr.TurnLabelRobber
	case labelCaptured:
		return cnr.TurnLabelCaptured
	}
	return cnr.TurnLabelCop
}

func appendUvarint(out []byte, v uint64) []byte {
	var scrap [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scrap[:], v)
	return append(out, scrap[:n]...)
}

func appendVerdict(out []byte, v *cnr.Verdict) []byte {
	out = appendUvarint(out, uint64(v.Decision))
	out = appendUvarint(out, uint64(v.Verts))
	out = appendUvarint(out, uint64(v.Cops))

	var scrap [binary.MaxVarintLen64]byte
	n := binary.PutVarint(scrap[:], int64(v.Rounds))
	out = append(out, scrap[:n]...)

	out = appendUvarint(out, uint64(len(v.Witness)))
	out = append(out, v.Witness...)

	out = appendUvarint(out, uint64(len(v.Trace)))
	for i := range v.Trace {
		step := &v.Trace[i]
		out = append(out, step.Cops...) // always v.Cops bytes
		out = append(out, step.Robber, labelCode(step.Label))
	}

	return out
}

func readVerdict(val []byte) (*cnr.Verdict, error) {
	rdr := bytes.NewReader(val)
	v := &cnr.Verdict{}

	bad := false
	readU := func() uint64 {
		u, err := binary.ReadUvarint(rdr)
		if err != nil {
			bad = true
		}
		return u
	}
	readByte := func() byte {
		b, err := rdr.ReadByte()
		if err != nil {
			bad = true
		}
		return b
	}

	v.Decision = cnr.Decision(readU())
	v.Verts = int(readU())
	v.Cops = int(readU())

	rounds, err := binary.ReadVarint(rdr)
	if err != nil {
		return nil, cnr.ErrUnmarshal
	}
	v.Rounds = int(rounds)

	wLen := readU()
	if bad || wLen > cnr.MaxCops {
		return nil, cnr.ErrUnmarshal
	}
	if wLen > 0 {
		v.Witness = make([]byte, wLen)
		for i := range v.Witness {
			v.Witness[i] = readByte()
		}
	}

	numSteps := readU()
	if bad || numSteps > uint64(rdr.Len()) {
		return nil, cnr.ErrUnmarshal
	}
	if numSteps > 0 {
		v.Trace = make(cnr.PlayTrace, numSteps)
		for i := range v.Trace {
			cops := make([]byte, v.Cops)
			for j := range cops {
				cops[j] = readByte()
			}
			v.Trace[i] = cnr.TraceStep{
				Cops:   cops,
				Robber: readByte(),
				Label:  labelString(readByte()),
			}
		}
	}

	if bad {
		return nil, cnr.ErrUnmarshal
	}
	return v, nil
}

func (state *catalogState) marshal(out []byte) []byte {
	out = appendUvarint(out, uint64(state.MajorVers))
	out = appendUvarint(out, uint64(state.MinorVers))

	// Tallies are sparse; store (vtxCount, count) pairs.
	numEntries := uint64(0)
	for _, n := range state.NumSolutions {
		if n > 0 {
			numEntries++
		}
	}
	out = appendUvarint(out, numEntries)
	for vtx, n := range state.NumSolutions {
		if n > 0 {
			out = appendUvarint(out, uint64(vtx))
			out = appendUvarint(out, n)
		}
	}
	return out
}

func (state *catalogState) unmarshal(val []byte) error {
	rdr := bytes.NewReader(val)

	readU := func() (uint64, error) {
		return binary.ReadUvarint(rdr)
	}

	major, err := readU()
	if err != nil {
		return cnr.ErrUnmarshal
	}
	minor, err := readU()
	if err != nil {
		return cnr.ErrUnmarshal
	}
	state.MajorVers = int64(major)
	state.MinorVers = int64(minor)

	numEntries, err := readU()
	if err != nil {
		return cnr.ErrUnmarshal
	}
	for i := uint64(0); i < numEntries; i++ {
		vtx, err := readU()
		if err != nil || vtx > cnr.MaxVertex {
			return cnr.ErrUnmarshal
		}
		n, err := readU()
		if err != nil {
			return cnr.ErrUnmarshal
		}
		state.NumSolutions[vtx] = n
	}
	return nil
}
