package control

import (
	"context"
	"fmt"

	"github.com/chabad360/osc-spatial/snapshot"
)

func (c *Controller) needStore() error {
	if c.store == nil {
		return fmt.Errorf("%w: snapshot store", ErrMissingDependency)
	}
	return nil
}

// ListSnapshots returns the stored snapshot names.
func (c *Controller) ListSnapshots(ctx context.Context) ([]string, error) {
	var names []string
	err := c.do(ctx, func() error {
		if err := c.needStore(); err != nil {
			return err
		}
		var err error
		names, err = c.store.List(ctx)
		return err
	})
	return names, err
}

// SaveSnapshot captures the scene under name.
func (c *Controller) SaveSnapshot(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	var saved *snapshot.Snapshot
	err := c.do(ctx, func() error {
		if err := c.needStore(); err != nil {
			return err
		}
		var err error
		saved, err = c.store.Save(ctx, name, c.scene.Capture())
		return err
	})
	return saved, err
}

// LoadSnapshot applies the snapshot stored under name, broadcasts the zones
// and streams the object positions.
func (c *Controller) LoadSnapshot(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	var snap *snapshot.Snapshot
	err := c.do(ctx, func() error {
		if err := c.needStore(); err != nil {
			return err
		}
		var err error
		snap, err = c.store.Load(ctx, name)
		if err != nil {
			return err
		}
		return c.apply(snap)
	})
	return snap, err
}

// DeleteSnapshot removes the snapshot stored under name.
func (c *Controller) DeleteSnapshot(ctx context.Context, name string) error {
	return c.do(ctx, func() error {
		if err := c.needStore(); err != nil {
			return err
		}
		return c.store.Delete(ctx, name)
	})
}

// loadLastUsed runs on the action loop at startup.
func (c *Controller) loadLastUsed(ctx context.Context) (*snapshot.Snapshot, error) {
	if err := c.needStore(); err != nil {
		return nil, err
	}
	snap, err := c.store.Startup(ctx)
	if err != nil || snap == nil {
		return nil, err
	}
	if err := c.apply(snap); err != nil {
		return nil, err
	}
	c.log.Info("snapshot restored", "name", snap.Name)
	return snap, nil
}

// apply replaces the scene with snap and tells the engine. A scene that
// cannot take snap is left as it was. Send failures are logged: the scene
// is already loaded and the next send corrects the engine.
func (c *Controller) apply(snap *snapshot.Snapshot) error {
	if err := c.scene.Apply(snap); err != nil {
		return fmt.Errorf("control: apply %q: %w", snap.Name, err)
	}
	if c.tx == nil || !c.tx.Ready() {
		return nil
	}
	if err := c.sendZones(); err != nil {
		c.log.Warn("sending zones after load", "err", err)
	}
	if err := c.sendObjects(); err != nil {
		c.log.Warn("sending objects after load", "err", err)
	}
	return nil
}
