package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/annel0/arches-terrain/internal/field"
	"github.com/annel0/arches-terrain/internal/terrain"
	"github.com/annel0/arches-terrain/internal/vec"
	"github.com/gin-gonic/gin"
)

func parseFloat(c *gin.Context, name string) (float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return 0, fmt.Errorf("параметр %s обязателен", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("параметр %s должен быть конечным числом", name)
	}
	return v, nil
}

func parsePoint(c *gin.Context) (vec.Vec2Float, bool) {
	x, err := parseFloat(c, "x")
	if err == nil {
		var y float64
		if y, err = parseFloat(c, "y"); err == nil {
			return vec.Vec2Float{X: x, Y: y}, true
		}
	}
	respondError(c, http.StatusBadRequest, err.Error())
	return vec.Vec2Float{}, false
}

func parseLayer(c *gin.Context) (terrain.Layer, bool) {
	l, err := terrain.ParseLayer(c.Param("layer"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return l, true
}

// handleBounds возвращает прямоугольник сцены и список островов
func (rs *RestServer) handleBounds(c *gin.Context) {
	respondOK(c, "Границы сцены", gin.H{
		"scene":   rs.scene.Box,
		"bedrock": rs.scene.Arches.Bounds(),
		"islands": rs.scene.Islands,
	})
}

// handleLayer возвращает высоту и вес слоя в точке
func (rs *RestServer) handleLayer(c *gin.Context) {
	l, ok := parseLayer(c)
	if !ok {
		return
	}
	p, ok := parsePoint(c)
	if !ok {
		return
	}

	s := rs.scene.Arches.Layer(l, p)
	respondOK(c, "Значение слоя", gin.H{
		"layer":   l.String(),
		"point":   p,
		"value":   s.Value,
		"alpha":   s.Alpha,
		"present": rs.scene.Arches.HasLayer(l),
	})
}

// handleNormal возвращает нормаль и градиент коренной породы
func (rs *RestServer) handleNormal(c *gin.Context) {
	p, ok := parsePoint(c)
	if !ok {
		return
	}
	respondOK(c, "Нормаль", gin.H{
		"point":    p,
		"normal":   rs.scene.Arches.Normal(p),
		"gradient": rs.scene.Arches.Gradient(p),
	})
}

// handleClassify возвращает материал в точке
func (rs *RestServer) handleClassify(c *gin.Context) {
	p, ok := parsePoint(c)
	if !ok {
		return
	}
	a := rs.scene.Arches
	respondOK(c, "Классификация", gin.H{
		"point":    p,
		"material": a.Classify(p).String(),
		"bedrock":  a.Bedrock(p).Value,
		"water":    a.Water(p).Value,
		"excess":   a.Excess(p),
		"tile":     rs.tiles.TileAt(p),
	})
}

// handleTraversal возвращает число посещённых узлов при вычислении точки
func (rs *RestServer) handleTraversal(c *gin.Context) {
	p, ok := parsePoint(c)
	if !ok {
		return
	}
	respondOK(c, "Обход дерева", gin.H{
		"point": p,
		"nodes": rs.scene.Arches.Traversal(p),
	})
}

// ShorelineRequest — отрезок для поиска береговой точки
type ShorelineRequest struct {
	A *vec.Vec2Float `json:"a" binding:"required"`
	B *vec.Vec2Float `json:"b" binding:"required"`
}

// handleShoreline ищет точку береговой линии на отрезке AB
func (rs *RestServer) handleShoreline(c *gin.Context) {
	var req ShorelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}

	point, err := rs.scene.Arches.FindShorelineChecked(*req.A, *req.B)
	if errors.Is(err, terrain.ErrNoCrossing) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, "Береговая точка", gin.H{"point": point})
}

// SplitRequest — треугольник в плоскости XY
type SplitRequest struct {
	A *vec.Vec2Float `json:"a" binding:"required"`
	B *vec.Vec2Float `json:"b" binding:"required"`
	C *vec.Vec2Float `json:"c" binding:"required"`
}

// handleSplit разбивает треугольник по береговой линии
func (rs *RestServer) handleSplit(c *gin.Context) {
	var req SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}

	res := rs.scene.Arches.SplitTriangle(req.A.ToVec3(0), req.B.ToVec3(0), req.C.ToVec3(0))
	respondOK(c, "Разбиение треугольника", res)
}

// SplitBatchRequest — набор треугольников в плоскости XY (Z игнорируется)
type SplitBatchRequest struct {
	Triangles []terrain.Triangle `json:"triangles" binding:"required"`
}

// handleSplitBatch разбивает список треугольников по береговой линии
func (rs *RestServer) handleSplitBatch(c *gin.Context) {
	var req SplitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return
	}
	if len(req.Triangles) > maxBatchTriangles {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("не больше %d треугольников за запрос", maxBatchTriangles))
		return
	}

	mesh, err := rs.mesher.SplitAll(c.Request.Context(), req.Triangles)
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	respondOK(c, "Разбиение набора треугольников", gin.H{
		"land":       mesh.Land,
		"water":      mesh.Water,
		"land_area":  mesh.LandArea(),
		"water_area": mesh.WaterArea(),
	})
}

// handleTile возвращает триангуляцию тайла (из кэша, если есть)
func (rs *RestServer) handleTile(c *gin.Context) {
	x, errX := strconv.Atoi(c.Param("x"))
	y, errY := strconv.Atoi(c.Param("y"))
	if errX != nil || errY != nil {
		respondError(c, http.StatusBadRequest, "координаты тайла должны быть целыми")
		return
	}

	t := vec.Vec2{X: x, Y: y}
	rec, cached, err := rs.tiles.Get(c.Request.Context(), t)
	if err != nil {
		rs.logger.Error("tile %d,%d: %v", x, y, err)
		respondError(c, http.StatusInternalServerError, "Ошибка построения тайла")
		return
	}

	respondOK(c, "Тайл", gin.H{
		"tile":   t,
		"box":    rs.tiles.TileBox(t),
		"cached": cached,
		"land":   rec.Land,
		"water":  rec.Water,
	})
}

// handleRaster возвращает регулярную сетку высот слоя
func (rs *RestServer) handleRaster(c *gin.Context) {
	l, ok := parseLayer(c)
	if !ok {
		return
	}

	var coords [4]float64
	for i, name := range []string{"x0", "y0", "x1", "y1"} {
		v, err := parseFloat(c, name)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		coords[i] = v
	}

	nx, errX := strconv.Atoi(c.DefaultQuery("nx", "64"))
	ny, errY := strconv.Atoi(c.DefaultQuery("ny", "64"))
	if errX != nil || errY != nil || nx < minRaster || ny < minRaster || nx > maxRaster || ny > maxRaster {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("nx и ny должны быть в диапазоне [%d, %d]", minRaster, maxRaster))
		return
	}

	box := field.NewBox2(coords[0], coords[1], coords[2], coords[3])
	hf, err := rs.scene.Arches.Rasterize(l, box, nx, ny)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	lo, hi := hf.Range()
	respondOK(c, "Растр слоя", gin.H{
		"layer":  l.String(),
		"min":    lo,
		"max":    hi,
		"raster": hf,
	})
}

// handlePurgeTiles очищает кэш тайлов
func (rs *RestServer) handlePurgeTiles(c *gin.Context) {
	n, err := rs.tiles.Purge(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	rs.logger.Info("Tile cache purged by %v: %d tiles", c.GetString("subject"), n)
	respondOK(c, "Кэш тайлов очищен", gin.H{"purged": n})
}

// handleInvalidateTile удаляет один тайл из кэша
func (rs *RestServer) handleInvalidateTile(c *gin.Context) {
	x, errX := strconv.Atoi(c.Param("x"))
	y, errY := strconv.Atoi(c.Param("y"))
	if errX != nil || errY != nil {
		respondError(c, http.StatusBadRequest, "координаты тайла должны быть целыми")
		return
	}
	if err := rs.tiles.Invalidate(c.Request.Context(), vec.Vec2{X: x, Y: y}); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, "Тайл удалён из кэша", gin.H{"tile": vec.Vec2{X: x, Y: y}})
}
