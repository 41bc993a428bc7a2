package marker

// Name is the symbolic name of a trace record marker.
type Name string

// Activity lifecycle markers.
const (
	ProcessCreation   Name = "PROCESS_CREATION"
	ProcessCompletion Name = "PROCESS_COMPLETION"
	ActorCreation     Name = "ACTOR_CREATION"
	TaskSpawn         Name = "TASK_SPAWN"
	ThreadSpawn       Name = "THREAD_SPAWN"
)

// Message send markers.
const (
	ActorMsgSend      Name = "ACTOR_MSG_SEND"
	PromiseMsgSend    Name = "PROMISE_MSG_SEND"
	ChannelMsgSend    Name = "CHANNEL_MSG_SEND"
	PromiseResolution Name = "PROMISE_RESOLUTION"
)

// Receive and join markers.
const (
	ChannelMsgRcv Name = "CHANNEL_MSG_RCV"
	TaskJoin      Name = "TASK_JOIN"
	ThreadJoin    Name = "THREAD_JOIN"
)

// Dynamic scope markers.
const (
	TurnStart        Name = "TURN_START"
	TurnEnd          Name = "TURN_END"
	MonitorEnter     Name = "MONITOR_ENTER"
	MonitorExit      Name = "MONITOR_EXIT"
	TransactionStart Name = "TRANSACTION_START"
	TransactionEnd   Name = "TRANSACTION_END"
)

// Passive entity markers.
const (
	ChannelCreation Name = "CHANNEL_CREATION"
	PromiseCreation Name = "PROMISE_CREATION"
)

// Implementation thread markers.
const (
	ImplThread                Name = "IMPL_THREAD"
	ImplThreadCurrentActivity Name = "IMPL_THREAD_CURRENT_ACTIVITY"
)

// Names lists every marker known to the decoder, in the order of the
// reference runtime's code assignment.
var Names = []Name{
	ProcessCreation,
	ProcessCompletion,
	ActorCreation,
	TaskSpawn,
	ThreadSpawn,
	ActorMsgSend,
	PromiseMsgSend,
	ChannelMsgSend,
	PromiseResolution,
	ChannelMsgRcv,
	TaskJoin,
	ThreadJoin,
	TurnStart,
	TurnEnd,
	MonitorEnter,
	MonitorExit,
	TransactionStart,
	TransactionEnd,
	ChannelCreation,
	PromiseCreation,
	ImplThread,
	ImplThreadCurrentActivity,
}

// Known reports whether n is one of the markers in Names.
func (n Name) Known() bool {
	for _, k := range Names {
		if k == n {
			return true
		}
	}
	return false
}

// IsTurn reports whether n opens or closes an actor turn.
// Monitor and transaction scopes are tracked structurally but never take
// part in causal resolution.
func (n Name) IsTurn() bool {
	return n == TurnStart || n == TurnEnd
}

// IsDirectSend reports whether n is a send whose receiver is known at send time.
func (n Name) IsDirectSend() bool {
	return n == ActorMsgSend
}

// IsPromiseSend reports whether n is a send whose receiver is only learned
// when a turn with the promise's id begins.
func (n Name) IsPromiseSend() bool {
	return n == PromiseMsgSend || n == PromiseResolution
}

// IsChannelSend reports whether n is a plain channel send.
func (n Name) IsChannelSend() bool {
	return n == ChannelMsgSend
}

// String returns the marker name.
func (n Name) String() string {
	return string(n)
}
