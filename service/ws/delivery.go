package ws

import (
	"encoding/json"

	"ChatWave/logger"
)

// Delivery is the at-most-once push primitive REST code calls after
// persisting. No queuing, no retry: a false return means only the real-time
// push was skipped, the stored record is the fallback.
type Delivery struct {
	reg *Registry
}

func NewDelivery(reg *Registry) *Delivery {
	return &Delivery{reg: reg}
}

// SendToUser serializes frame and pushes it to userID's connection if one is
// registered and open. Never raises; write failures degrade to false.
func (d *Delivery) SendToUser(userID string, frame any) bool {
	c, ok := d.reg.Lookup(userID)
	if !ok || !c.IsOpen() {
		return false
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		logger.Errorf("[delivery] marshal err user=%s: %v", userID, err)
		return false
	}
	if err := c.enqueue(payload); err != nil {
		logger.Infof("[delivery] drop user=%s conn=%s: %v", userID, c.ID, err)
		return false
	}
	return true
}

// Broadcast pushes frame to every registered connection except
// excludeUserID. Per-connection failures are skipped so one bad socket never
// aborts delivery to the rest.
func (d *Delivery) Broadcast(frame any, excludeUserID string) {
	payload, err := json.Marshal(frame)
	if err != nil {
		logger.Errorf("[delivery] marshal err: %v", err)
		return
	}
	for _, c := range d.reg.Authenticated() {
		if excludeUserID != "" && c.UserID() == excludeUserID {
			continue
		}
		if err := c.enqueue(payload); err != nil {
			logger.Infof("[delivery] broadcast skip user=%s conn=%s: %v", c.UserID(), c.ID, err)
		}
	}
}
