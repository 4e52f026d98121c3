package value

//go:generate stringer -type=Type -linecomment

type Type uint8

const (
	TypeInvalid Type = iota // <invalid>
	TypeNil                 // nil
	TypeBoolean             // boolean
	TypeLightUserdata       // lightuserdata
	TypeNumber              // number
	TypeString              // string
	TypeTable               // table
	TypeFunction            // function
	TypeUserdata            // userdata
	TypeThread              // thread
	TypeCdata               // cdata
	TypeClosure             // closure
)
