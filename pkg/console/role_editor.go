package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

// EditorMode tells whether the editor is closed, creating or editing
type EditorMode int

const (
	EditorClosed EditorMode = iota
	EditorCreate
	EditorEdit
)

func (m EditorMode) String() string {
	switch m {
	case EditorCreate:
		return "create"
	case EditorEdit:
		return "edit"
	default:
		return "closed"
	}
}

// ErrEditorClosed is returned when acting on an editor that is not open
var ErrEditorClosed = errors.New("role editor is not open")

// RoleEditor is the state of the create/edit role dialog
type RoleEditor struct {
	gw RoleGateway

	mu      sync.Mutex
	session uint64
	mode    EditorMode
	roleID  int64
	name    string
	matrix  *permission.Matrix
	dropped []string
	err     error
}

// NewRoleEditor returns a closed editor
func NewRoleEditor(gw RoleGateway) *RoleEditor {
	return &RoleEditor{gw: gw}
}

// OpenCreate fetches the catalog and starts a new role with nothing granted
func (e *RoleEditor) OpenCreate(ctx context.Context) error {
	session := e.begin(EditorCreate, 0)

	catalog, err := e.gw.TableList(ctx)
	if err != nil {
		e.fail(session, fmt.Errorf("loading tables: %w", err))
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != session {
		return ErrEditorClosed
	}
	e.matrix = permission.DefaultMatrix(catalog)
	return nil
}

// OpenEdit fetches the catalog and the role, then merges the role's
// permissions into the catalog
func (e *RoleEditor) OpenEdit(ctx context.Context, roleID int64) error {
	session := e.begin(EditorEdit, roleID)

	var (
		catalog []permission.Table
		detail  *api.RoleDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = e.gw.TableList(gctx)
		if err != nil {
			return fmt.Errorf("loading tables: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		detail, err = e.gw.RoleDetail(gctx, roleID)
		if err != nil {
			return fmt.Errorf("loading role %d: %w", roleID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		e.fail(session, err)
		return err
	}

	merged := permission.Merge(catalog, detail.Permissions)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != session {
		return ErrEditorClosed
	}
	e.name = detail.RoleName
	e.matrix = permission.NewMatrix(merged.Entries)
	e.dropped = merged.Dropped
	return nil
}

// Close resets every field. Fetches still in flight are ignored when they land.
func (e *RoleEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset(EditorClosed, 0)
}

func (e *RoleEditor) begin(mode EditorMode, roleID int64) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset(mode, roleID)
	return e.session
}

func (e *RoleEditor) reset(mode EditorMode, roleID int64) {
	e.session++
	e.mode = mode
	e.roleID = roleID
	e.name = ""
	e.matrix = nil
	e.dropped = nil
	e.err = nil
}

func (e *RoleEditor) fail(session uint64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == session {
		e.matrix = nil
		e.err = err
	}
}

// Mode returns the current mode
func (e *RoleEditor) Mode() EditorMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// RoleID returns the id of the role being edited, 0 when creating
func (e *RoleEditor) RoleID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roleID
}

// Name returns the role name as typed
func (e *RoleEditor) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// SetName replaces the role name
func (e *RoleEditor) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
}

// Err returns the load error, if loading failed
func (e *RoleEditor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Ready reports whether the matrix is loaded and editable
func (e *RoleEditor) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matrix != nil
}

// Warnings lists tables whose persisted permissions were dropped because
// they are no longer in the catalog
func (e *RoleEditor) Warnings() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.dropped) == 0 {
		return nil
	}
	warnings := make([]string, len(e.dropped))
	for i, name := range e.dropped {
		warnings[i] = fmt.Sprintf("table %q is no longer in the catalog; its permissions will be removed on save", name)
	}
	return warnings
}

// Entries returns a copy of the current permission entries
func (e *RoleEditor) Entries() []permission.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.matrix == nil {
		return nil
	}
	return e.matrix.Entries()
}

// Toggle flips one capability of one table
func (e *RoleEditor) Toggle(index int, c permission.Capability) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.matrix == nil {
		return ErrEditorClosed
	}
	entry, ok := e.matrix.Entry(index)
	if !ok {
		return fmt.Errorf("%w: %d", permission.ErrIndexOutOfRange, index)
	}
	return e.matrix.SetCapability(index, c, !entry.Has(c))
}

// ToggleColumn applies the select-all checkbox of one capability column
// and returns the value it set
func (e *RoleEditor) ToggleColumn(c permission.Capability) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.matrix == nil {
		return false, ErrEditorClosed
	}
	return e.matrix.ToggleColumn(c), nil
}

// Columns returns the select-all state of every capability column
func (e *RoleEditor) Columns() []permission.Column {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.matrix == nil {
		return nil
	}
	return e.matrix.Columns()
}

// Submit creates or updates the role with the full entry set and closes
// the editor on success. On failure the editor keeps its state.
func (e *RoleEditor) Submit(ctx context.Context) error {
	e.mu.Lock()
	mode, roleID, name := e.mode, e.roleID, strings.TrimSpace(e.name)
	var entries []permission.Entry
	if e.matrix != nil {
		entries = e.matrix.Entries()
	}
	session := e.session
	e.mu.Unlock()

	if entries == nil {
		return ErrEditorClosed
	}

	var err error
	switch mode {
	case EditorCreate:
		err = e.gw.CreateRole(ctx, name, entries)
	case EditorEdit:
		err = e.gw.UpdateRole(ctx, roleID, name, entries)
	default:
		return ErrEditorClosed
	}
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == session {
		e.reset(EditorClosed, 0)
	}
	return nil
}
