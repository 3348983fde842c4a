package algo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nav-overlay/model"
)

func newTestRegistry() *Registry {
	return NewRegistry(smallGrid(), NewSpeed(DefaultSpeed), nil)
}

func TestRegistry_CreateMarker(t *testing.T) {
	r := newTestRegistry()

	shape := r.CreateMarker(model.Point{Lat: 0.1, Lng: 1.9})
	assert.Equal(t, model.ShapeMarker, shape.Kind)
	assert.Equal(t, "0.1, 1.9, grid 3", shape.Label)
	require.NotNil(t, shape.Grid)
	assert.Equal(t, 3, *shape.Grid)
	assert.Empty(t, shape.Annotations)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_PathLifecycle(t *testing.T) {
	r := newTestRegistry()

	created, err := r.CreatePath([]model.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}})
	require.NoError(t, err)
	assert.Equal(t, model.ShapePolyline, created.Kind)
	assert.Len(t, created.Annotations, 3)
	assert.Equal(t, 0, created.Revision)
	assert.Equal(t, 300.0, created.Speed)
	require.NotNil(t, created.Summary)
	assert.Equal(t, 2, created.Summary.Segments)

	// 编辑后标注被整体替换
	edited, err := r.Edit(created.ID, []model.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, edited.Revision)
	require.Len(t, edited.Annotations, 2)
	assert.Equal(t, "90°|10.0km.|2:00", edited.Annotations[0].Label)

	got, err := r.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, edited.Annotations, got.Annotations)

	require.NoError(t, r.Delete(created.ID))
	_, err = r.Get(created.ID)
	assert.ErrorIs(t, err, ErrShapeNotFound)
	assert.ErrorIs(t, r.Delete(created.ID), ErrShapeNotFound)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_EditErrors(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Edit(uuid.New(), []model.Point{{Lat: 1, Lng: 1}})
	assert.ErrorIs(t, err, ErrShapeNotFound)

	marker := r.CreateMarker(model.Point{Lat: 1.9, Lng: 0.1})
	_, err = r.Edit(marker.ID, []model.Point{{Lat: 1, Lng: 1}, {Lat: 0, Lng: 0}})
	assert.ErrorIs(t, err, ErrMarkerGeometry)

	_, err = r.Edit(marker.ID, nil)
	assert.ErrorIs(t, err, ErrEmptyGeometry)

	_, err = r.CreatePath(nil)
	assert.ErrorIs(t, err, ErrEmptyGeometry)
}

func TestRegistry_EditMarkerRelabels(t *testing.T) {
	r := newTestRegistry()
	marker := r.CreateMarker(model.Point{Lat: 1.9, Lng: 0.1})

	moved, err := r.Edit(marker.ID, []model.Point{{Lat: 0.1, Lng: 0.1}})
	require.NoError(t, err)
	assert.Equal(t, "0.1, 0.1, grid 2", moved.Label)
	assert.Equal(t, 2, *moved.Grid)
}

func TestRegistry_SpeedChangeNeedsRefresh(t *testing.T) {
	r := newTestRegistry()
	path, err := r.CreatePath([]model.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}})
	require.NoError(t, err)
	r.CreateMarker(model.Point{Lat: 1, Lng: 1})

	require.NoError(t, r.Speed().Set(600))

	stale, err := r.Get(path.ID)
	require.NoError(t, err)
	assert.Equal(t, "90°|10.0km.|2:00", stale.Annotations[0].Label)

	assert.Equal(t, 1, r.Refresh())

	fresh, err := r.Get(path.ID)
	require.NoError(t, err)
	assert.Equal(t, "90°|10.0km.|1:00", fresh.Annotations[0].Label)
	assert.Equal(t, 600.0, fresh.Speed)
}

func TestRegistry_ListKeepsCreationOrder(t *testing.T) {
	r := newTestRegistry()
	a := r.CreateMarker(model.Point{Lat: 1, Lng: 1})
	b, err := r.CreatePath([]model.Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}})
	require.NoError(t, err)
	c := r.CreateMarker(model.Point{Lat: 0.5, Lng: 0.5})

	require.NoError(t, r.Delete(b.ID))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, c.ID, list[1].ID)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r := newTestRegistry()
	created, err := r.CreatePath([]model.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}})
	require.NoError(t, err)

	created.Points[0] = model.Point{Lat: 9, Lng: 9}

	got, err := r.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Point{Lat: 0, Lng: 0}, got.Points[0])
}
