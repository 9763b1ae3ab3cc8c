package storage

import (
	"github.com/tinylib/msgp/msgp"
)

// MarshalMsg implements msgp.Marshaler
func (z *Metadata) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	// map header, size 3
	o = msgp.AppendMapHeader(o, 3)
	o = msgp.AppendString(o, "instance")
	o = msgp.AppendString(o, z.InstanceID)
	o = msgp.AppendString(o, "current")
	o = msgp.AppendUint64(o, z.CurrentID)
	o = msgp.AppendString(o, "indices")
	o = msgp.AppendArrayHeader(o, uint32(len(z.Indices)))
	for i := range z.Indices {
		o, err = z.Indices[i].MarshalMsg(o)
		if err != nil {
			err = msgp.WrapError(err, "Indices", i)
			return
		}
	}
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *Metadata) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	var zb0001 uint32
	zb0001, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		err = msgp.WrapError(err)
		return
	}
	for zb0001 > 0 {
		zb0001--
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			err = msgp.WrapError(err)
			return
		}
		switch msgp.UnsafeString(field) {
		case "instance":
			z.InstanceID, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "InstanceID")
				return
			}
		case "current":
			z.CurrentID, bts, err = msgp.ReadUint64Bytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "CurrentID")
				return
			}
		case "indices":
			var zb0002 uint32
			zb0002, bts, err = msgp.ReadArrayHeaderBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "Indices")
				return
			}
			z.Indices = make([]IndexMetadata, zb0002)
			for i := range z.Indices {
				bts, err = z.Indices[i].UnmarshalMsg(bts)
				if err != nil {
					err = msgp.WrapError(err, "Indices", i)
					return
				}
			}
		default:
			bts, err = msgp.Skip(bts)
			if err != nil {
				err = msgp.WrapError(err)
				return
			}
		}
	}
	o = bts
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (z *Metadata) Msgsize() (s int) {
	s = 1 + 9 + msgp.StringPrefixSize + len(z.InstanceID) + 8 + msgp.Uint64Size + 8 + msgp.ArrayHeaderSize
	for i := range z.Indices {
		s += z.Indices[i].Msgsize()
	}
	return
}

// MarshalMsg implements msgp.Marshaler
func (z *IndexMetadata) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	// map header, size 6
	o = msgp.AppendMapHeader(o, 6)
	o = msgp.AppendString(o, "name")
	o = msgp.AppendString(o, z.Name)
	o = msgp.AppendString(o, "kind")
	o = msgp.AppendUint8(o, uint8(z.Kind))
	o = msgp.AppendString(o, "type")
	o = msgp.AppendUint8(o, uint8(z.Type))
	o = msgp.AppendString(o, "all")
	o = msgp.AppendBool(o, z.AllKeys)
	o = msgp.AppendString(o, "keys")
	o = msgp.AppendArrayHeader(o, uint32(len(z.Keys)))
	for _, key := range z.Keys {
		o = msgp.AppendString(o, key)
	}
	o = msgp.AppendString(o, "entries")
	o = msgp.AppendArrayHeader(o, uint32(len(z.Entries)))
	for i := range z.Entries {
		o = z.Entries[i].appendMsg(o)
	}
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *IndexMetadata) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var field []byte
	var zb0001 uint32
	zb0001, bts, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		err = msgp.WrapError(err)
		return
	}
	for zb0001 > 0 {
		zb0001--
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			err = msgp.WrapError(err)
			return
		}
		switch msgp.UnsafeString(field) {
		case "name":
			z.Name, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "Name")
				return
			}
		case "kind":
			var tmp uint8
			tmp, bts, err = msgp.ReadUint8Bytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "Kind")
				return
			}
			z.Kind = ElementKind(tmp)
		case "type":
			var tmp uint8
			tmp, bts, err = msgp.ReadUint8Bytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "Type")
				return
			}
			z.Type = IndexType(tmp)
		case "all":
			z.AllKeys, bts, err = msgp.ReadBoolBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "AllKeys")
				return
			}
		case "keys":
			var zb0002 uint32
			zb0002, bts, err = msgp.ReadArrayHeaderBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "Keys")
				return
			}
			z.Keys = make([]string, zb0002)
			for i := range z.Keys {
				z.Keys[i], bts, err = msgp.ReadStringBytes(bts)
				if err != nil {
					err = msgp.WrapError(err, "Keys", i)
					return
				}
			}
		case "entries":
			var zb0003 uint32
			zb0003, bts, err = msgp.ReadArrayHeaderBytes(bts)
			if err != nil {
				err = msgp.WrapError(err, "Entries")
				return
			}
			z.Entries = make([]EntryMetadata, zb0003)
			for i := range z.Entries {
				bts, err = z.Entries[i].UnmarshalMsg(bts)
				if err != nil {
					err = msgp.WrapError(err, "Entries", i)
					return
				}
			}
		default:
			bts, err = msgp.Skip(bts)
			if err != nil {
				err = msgp.WrapError(err)
				return
			}
		}
	}
	o = bts
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (z *IndexMetadata) Msgsize() (s int) {
	s = 1 + 5 + msgp.StringPrefixSize + len(z.Name) + 5 + msgp.Uint8Size + 5 + msgp.Uint8Size +
		4 + msgp.BoolSize + 5 + msgp.ArrayHeaderSize + 8 + msgp.ArrayHeaderSize
	for _, key := range z.Keys {
		s += msgp.StringPrefixSize + len(key)
	}
	for i := range z.Entries {
		s += z.Entries[i].Msgsize()
	}
	return
}

func (z *EntryMetadata) appendMsg(o []byte) []byte {
	// array header, size 4
	o = msgp.AppendArrayHeader(o, 4)
	o = msgp.AppendString(o, z.Key)
	o = msgp.AppendString(o, z.Tag)
	o = msgp.AppendString(o, z.Value)
	o = msgp.AppendString(o, z.ID)
	return o
}

// MarshalMsg implements msgp.Marshaler
func (z *EntryMetadata) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	o = z.appendMsg(o)
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *EntryMetadata) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var asz uint32
	asz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		err = msgp.WrapError(err)
		return
	}
	if asz != 4 {
		err = msgp.ArrayError{Wanted: 4, Got: asz}
		return
	}
	for _, field := range []*string{&z.Key, &z.Tag, &z.Value, &z.ID} {
		*field, bts, err = msgp.ReadStringBytes(bts)
		if err != nil {
			err = msgp.WrapError(err)
			return
		}
	}
	o = bts
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (z *EntryMetadata) Msgsize() (s int) {
	s = msgp.ArrayHeaderSize + 4*msgp.StringPrefixSize + len(z.Key) + len(z.Tag) + len(z.Value) + len(z.ID)
	return
}
