// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import "fmt"

// SegmentKind identifies the disposition of a Segment within a Packet.
type SegmentKind int8

// Segment kinds defined by the HDB wire protocol.
const (
	SegmentKindInvalid SegmentKind = 0
	SegmentKindRequest SegmentKind = 1
	SegmentKindReply   SegmentKind = 2
	SegmentKindError   SegmentKind = 5
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentKindInvalid:
		return "Invalid"
	case SegmentKindRequest:
		return "Request"
	case SegmentKindReply:
		return "Reply"
	case SegmentKindError:
		return "Error"
	default:
		return fmt.Sprintf("SegmentKind(%d)", int8(k))
	}
}

// MessageType identifies the kind of request carried by a Request Segment.
type MessageType int8

// Message types relevant to connection establishment. The full HDB message
// type space is far larger (SQL execution, LOB streaming, transaction
// control, ...); only the types needed for the handshake and for
// version-skew-tolerant decoding of messages the core does not interpret
// are enumerated here.
const (
	MessageTypeNil             MessageType = 0
	MessageTypeExecuteDirect   MessageType = 2
	MessageTypePrepare         MessageType = 3
	MessageTypeExecute         MessageType = 13
	MessageTypeReadLob         MessageType = 17
	MessageTypeAuthenticate    MessageType = 65
	MessageTypeConnect         MessageType = 66
	MessageTypeCommit          MessageType = 67
	MessageTypeRollback        MessageType = 68
	MessageTypeCloseResultset  MessageType = 69
	MessageTypeDropStatementID MessageType = 70
	MessageTypeFetchNext       MessageType = 71
	MessageTypeDisconnect      MessageType = 77
	MessageTypeDBConnectInfo   MessageType = 82
)

var messageTypeNames = map[MessageType]string{
	MessageTypeNil:             "Nil",
	MessageTypeExecuteDirect:   "ExecuteDirect",
	MessageTypePrepare:         "Prepare",
	MessageTypeExecute:         "Execute",
	MessageTypeReadLob:         "ReadLob",
	MessageTypeAuthenticate:    "Authenticate",
	MessageTypeConnect:         "Connect",
	MessageTypeCommit:          "Commit",
	MessageTypeRollback:        "Rollback",
	MessageTypeCloseResultset:  "CloseResultset",
	MessageTypeDropStatementID: "DropStatementID",
	MessageTypeFetchNext:       "FetchNext",
	MessageTypeDisconnect:      "Disconnect",
	MessageTypeDBConnectInfo:   "DBConnectInfo",
}

func (t MessageType) String() string {
	if s, ok := messageTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("MessageType(%d)", int8(t))
}

// FunctionCode identifies the outcome of a Reply Segment.
type FunctionCode int16

// Function codes relevant to connection establishment.
const (
	FunctionCodeNil        FunctionCode = 0
	FunctionCodeConnect    FunctionCode = 14
	FunctionCodeDisconnect FunctionCode = 18
)

var functionCodeNames = map[FunctionCode]string{
	FunctionCodeNil:        "Nil",
	FunctionCodeConnect:    "Connect",
	FunctionCodeDisconnect: "Disconnect",
}

func (c FunctionCode) String() string {
	if s, ok := functionCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("FunctionCode(%d)", int16(c))
}

// PartKind identifies the type of payload carried by a Part.
type PartKind int8

// Part kinds relevant to connection establishment and error reporting.
const (
	PartKindNil            PartKind = 0
	PartKindCommand        PartKind = 3
	PartKindResultset      PartKind = 5
	PartKindError          PartKind = 6
	PartKindStatementID    PartKind = 10
	PartKindResultsetID    PartKind = 13
	PartKindTopology       PartKind = 15
	PartKindAuthentication PartKind = 33
	PartKindClientID       PartKind = 35
	PartKindConnectOptions PartKind = 39
	PartKindClientInfo     PartKind = 45
)

var partKindNames = map[PartKind]string{
	PartKindNil:            "Nil",
	PartKindCommand:        "Command",
	PartKindResultset:      "Resultset",
	PartKindError:          "Error",
	PartKindStatementID:    "StatementID",
	PartKindResultsetID:    "ResultsetID",
	PartKindTopology:       "Topology",
	PartKindAuthentication: "Authentication",
	PartKindClientID:       "ClientID",
	PartKindConnectOptions: "ConnectOptions",
	PartKindClientInfo:     "ClientInfo",
}

func (k PartKind) String() string {
	if s, ok := partKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("PartKind(%d)", int8(k))
}
