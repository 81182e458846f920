package connection

import (
	"github.com/cygnusnet/cygnusd/app/appmessage"
)

// singletonCommands are idempotent refresh-style requests. At most one
// instance of each may wait in a queue; enqueuing a second is a no-op.
var singletonCommands = map[appmessage.MessageCommand]struct{}{
	appmessage.CmdAddresses:    {},
	appmessage.CmdGetAddresses: {},
	appmessage.CmdGetBlocks:    {},
	appmessage.CmdGetHeaders:   {},
	appmessage.CmdMemPool:      {},
}

// highPriorityCommands drain ahead of everything else in the outbound
// queues.
var highPriorityCommands = map[appmessage.MessageCommand]struct{}{
	appmessage.CmdAlert:        {},
	appmessage.CmdBlock:        {},
	appmessage.CmdFilterAdd:    {},
	appmessage.CmdFilterClear:  {},
	appmessage.CmdFilterLoad:   {},
	appmessage.CmdGetAddresses: {},
	appmessage.CmdMemPool:      {},
}

// enqueueOutbound classifies a message into the high or low priority queue,
// deduplicating singleton commands, and attempts a dispatch.
func (s *Session) enqueueOutbound(message appmessage.Message) error {
	command := message.Command()

	queue := &s.lowQueue
	if _, ok := highPriorityCommands[command]; ok {
		queue = &s.highQueue
	}

	if _, ok := singletonCommands[command]; ok && queueHoldsCommand(*queue, command) {
		log.Debugf("Not enqueueing %s to %s, an equal request is already pending",
			command, s.peer)
		return nil
	}

	*queue = append(*queue, message)
	return s.maybeSend()
}

func queueHoldsCommand(queue []appmessage.Message, command appmessage.MessageCommand) bool {
	for _, queued := range queue {
		if queued.Command() == command {
			return true
		}
	}
	return false
}

// maybeSend dispatches the next queued message if the handshake is
// established and no send is in flight. High priority always drains first.
// Each acknowledgment re-enters here, so the queues drain one send per ack.
func (s *Session) maybeSend() error {
	if s.state != handshakeEstablished || s.sendInFlight {
		return nil
	}

	var message appmessage.Message
	switch {
	case len(s.highQueue) > 0:
		message = s.highQueue[0]
		s.highQueue = s.highQueue[1:]
	case len(s.lowQueue) > 0:
		message = s.lowQueue[0]
		s.lowQueue = s.lowQueue[1:]
	default:
		return nil
	}

	data, err := appmessage.SerializeMessage(message, s.cfg.ProtocolVersion, s.cfg.Network)
	if err != nil {
		return err
	}
	s.sendInFlight = true
	log.Tracef("Sending %s to %s (%d bytes)", message.Command(), s.peer, len(data))
	return s.transport.Send(data)
}
