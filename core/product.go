package core

import (
	"fmt"
	"slices"
)

// Product 是商品目录中的一条参考数据。
// 在目录加载时创建，运行期不可变。
type Product struct {
	ID       int64    `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Category string   `json:"category" yaml:"category" validate:"required"`
	Price    float64  `json:"price" yaml:"price" validate:"gte=0"`
	Tags     []string `json:"tags,omitempty" yaml:"tags"`
}

func (p Product) String() string {
	return fmt.Sprintf("Product{id=%d, name='%s', category='%s', price=%.2f}", p.ID, p.Name, p.Category, p.Price)
}

// HasTag 判断商品是否带有某个标签。
func (p Product) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// Catalog 是只读商品目录，按 ID 索引。
// 构建后不再修改，可在多个 goroutine 间共享。
type Catalog struct {
	byID map[int64]Product
	ids  []int64
}

// NewCatalog 校验并构建商品目录。ID 重复或字段非法时返回 INVALID_CONFIGURATION。
func NewCatalog(products []Product) (*Catalog, error) {
	c := &Catalog{
		byID: make(map[int64]Product, len(products)),
		ids:  make([]int64, 0, len(products)),
	}
	for _, p := range products {
		if err := Validate(p); err != nil {
			return nil, InvalidConfiguration(ModuleCatalog, fmt.Sprintf("catalog: product %d: %v", p.ID, err))
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, InvalidConfiguration(ModuleCatalog, fmt.Sprintf("catalog: duplicate product id %d", p.ID))
		}
		p.Tags = slices.Clone(p.Tags)
		c.byID[p.ID] = p
		c.ids = append(c.ids, p.ID)
	}
	slices.Sort(c.ids)
	return c, nil
}

// Get 按 ID 获取商品。
func (c *Catalog) Get(id int64) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	p, ok := c.byID[id]
	return p, ok
}

// Products 按 ID 升序返回所有商品。
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}
