package badger

import (
	"github.com/tinylib/msgp/msgp"
)

// edgeRecord is the value stored under an edge key.
type edgeRecord struct {
	Out   string
	In    string
	Label string
}

// MarshalMsg implements msgp.Marshaler
func (z *edgeRecord) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	// array header, size 3
	o = msgp.AppendArrayHeader(o, 3)
	o = msgp.AppendString(o, z.Out)
	o = msgp.AppendString(o, z.In)
	o = msgp.AppendString(o, z.Label)
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *edgeRecord) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var zb0001 uint32
	zb0001, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		err = msgp.WrapError(err)
		return
	}
	if zb0001 != 3 {
		err = msgp.ArrayError{Wanted: 3, Got: zb0001}
		return
	}
	z.Out, bts, err = msgp.ReadStringBytes(bts)
	if err != nil {
		err = msgp.WrapError(err, "Out")
		return
	}
	z.In, bts, err = msgp.ReadStringBytes(bts)
	if err != nil {
		err = msgp.WrapError(err, "In")
		return
	}
	z.Label, bts, err = msgp.ReadStringBytes(bts)
	if err != nil {
		err = msgp.WrapError(err, "Label")
		return
	}
	o = bts
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (z *edgeRecord) Msgsize() (s int) {
	s = 1 + msgp.StringPrefixSize + len(z.Out) + msgp.StringPrefixSize + len(z.In) + msgp.StringPrefixSize + len(z.Label)
	return
}

// propertyRecord is a property value in tagged text form.
type propertyRecord struct {
	Tag  string
	Text string
}

// MarshalMsg implements msgp.Marshaler
func (z *propertyRecord) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	// array header, size 2
	o = msgp.AppendArrayHeader(o, 2)
	o = msgp.AppendString(o, z.Tag)
	o = msgp.AppendString(o, z.Text)
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *propertyRecord) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var zb0001 uint32
	zb0001, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		err = msgp.WrapError(err)
		return
	}
	if zb0001 != 2 {
		err = msgp.ArrayError{Wanted: 2, Got: zb0001}
		return
	}
	z.Tag, bts, err = msgp.ReadStringBytes(bts)
	if err != nil {
		err = msgp.WrapError(err, "Tag")
		return
	}
	z.Text, bts, err = msgp.ReadStringBytes(bts)
	if err != nil {
		err = msgp.WrapError(err, "Text")
		return
	}
	o = bts
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (z *propertyRecord) Msgsize() (s int) {
	s = 1 + msgp.StringPrefixSize + len(z.Tag) + msgp.StringPrefixSize + len(z.Text)
	return
}
