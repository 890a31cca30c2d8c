package book

import (
	"context"
	"time"

	apperrors "github.com/benhanover/kaplat/pkg/errors"
	"github.com/benhanover/kaplat/pkg/fanout"
	"github.com/benhanover/kaplat/pkg/metrics"
)

// fanoutTimeout 单次多后端写入的整体超时
const fanoutTimeout = 10 * time.Second

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨后端的业务规则:词表/范围校验、标题唯一性、
//    以及写操作向所有已配置后端的复制
// 2. 读路径只访问selector解析出的单个后端;写路径复制到全部后端,
//    但响应中与具体数据相关的部分(rawid、旧价格)取自选中的后端
// 3. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// Create 创建图书,返回选中后端分配的rawid
	// 业务规则:
	// - 必填字段齐全,genre在词表内
	// - 年份在[1940, 2100],价格>=0
	// - 标题在任一后端都不存在(大小写不敏感)
	Create(ctx context.Context, data CreateData, selector string) (int, error)

	// Get 按rawid查询单本图书
	Get(ctx context.Context, id int, selector string) (*Book, error)

	// Count 按过滤条件统计图书数量
	Count(ctx context.Context, params FilterParams, selector string) (int64, error)

	// List 按过滤条件查询图书,标题升序(忽略大小写)
	List(ctx context.Context, params FilterParams, selector string) ([]*Book, error)

	// UpdatePrice 更新价格,返回更新前的价格
	// 业务规则:新价格不能为负;图书必须存在于选中的后端
	UpdatePrice(ctx context.Context, id int, price float64, selector string) (float64, error)

	// Delete 按rawid删除图书,返回被删除的rawid
	Delete(ctx context.Context, id int, selector string) (int, error)
}

// service 领域服务实现
// backends按配置顺序排列,写操作按此顺序依次复制。
type service struct {
	backends []ConfiguredBackend
	primary  Backend
}

// NewService 创建图书领域服务
// primary必须是backends中的一员,由配置层在启动时保证。
func NewService(backends []ConfiguredBackend, primary Backend) Service {
	return &service{
		backends: backends,
		primary:  primary,
	}
}

// resolve 解析selector到一个已配置的后端
// selector为空或无法识别时回落到主后端;识别出的后端未配置时
// 同样回落,请求不会因为选择了缺席的后端而失败。
func (s *service) resolve(selector string) ConfiguredBackend {
	name := ParseBackend(selector, s.primary)
	for _, b := range s.backends {
		if b.Name == name {
			return b
		}
	}
	for _, b := range s.backends {
		if b.Name == s.primary {
			return b
		}
	}
	// 配置校验保证不会走到这里
	return s.backends[0]
}

// Create 创建图书
func (s *service) Create(ctx context.Context, data CreateData, selector string) (int, error) {
	// 1. 存在性与词表校验(同步,无副作用)
	if err := data.Validate(); err != nil {
		return 0, err
	}

	// 2. 领域规则:年份范围
	if *data.Year < MinYear || *data.Year > MaxYear {
		return 0, errInvalidYear(*data.Year)
	}

	// 3. 领域规则:价格非负
	if *data.Price < 0 {
		return 0, errNegativeCreatePrice()
	}

	// 4. 标题唯一性:任一后端存在同名(忽略大小写)即拒绝
	// 检查失败按存储错误处理,不能在不确定的情况下放行创建
	for _, b := range s.backends {
		exists, err := b.Repo.Exists(ctx, *data.Title)
		if err != nil {
			return 0, apperrors.Wrap(err, "existence check failed")
		}
		if exists {
			return 0, errDuplicateTitle(*data.Title)
		}
	}

	// 5. 复制写入所有后端,记录各后端分配的rawid
	// 各后端独立计数,分配到的rawid可能互不相同
	ids := make(map[Backend]int, len(s.backends))
	fo := fanout.New("create", fanoutTimeout)
	for _, b := range s.backends {
		backend := b
		fo.Add(string(backend.Name), func(ctx context.Context) error {
			entity := data.NewBook()
			id, err := backend.Repo.Create(ctx, entity)
			if err != nil {
				return err
			}
			ids[backend.Name] = id
			return nil
		})
	}
	if failures := fo.Execute(ctx); len(failures) > 0 {
		return 0, apperrors.Wrap(failures[0], "create replication failed")
	}

	metrics.IncCounter(metrics.BooksCreatedTotal)

	// 6. 响应中的rawid取自选中的后端
	return ids[s.resolve(selector).Name], nil
}

// Get 按rawid查询
func (s *service) Get(ctx context.Context, id int, selector string) (*Book, error) {
	return s.resolve(selector).Repo.FindByRawID(ctx, id)
}

// Count 按过滤条件统计
func (s *service) Count(ctx context.Context, params FilterParams, selector string) (int64, error) {
	filter, err := NewFilter(params)
	if err != nil {
		return 0, err
	}
	return s.resolve(selector).Repo.Count(ctx, filter)
}

// List 按过滤条件查询
func (s *service) List(ctx context.Context, params FilterParams, selector string) ([]*Book, error) {
	filter, err := NewFilter(params)
	if err != nil {
		return nil, err
	}
	return s.resolve(selector).Repo.List(ctx, filter)
}

// UpdatePrice 更新价格
func (s *service) UpdatePrice(ctx context.Context, id int, price float64, selector string) (float64, error) {
	// 1. 价格校验先于存在性检查
	if price < 0 {
		return 0, errNegativeUpdatePrice(id)
	}

	// 2. 从选中的后端读旧价格;不存在即404
	previous, err := s.resolve(selector).Repo.FindByRawID(ctx, id)
	if err != nil {
		return 0, err
	}

	// 3. 复制更新到所有后端
	// 某个后端缺这条记录(rawid分配竞态的后果)也按复制失败处理
	fo := fanout.New("update", fanoutTimeout)
	for _, b := range s.backends {
		backend := b
		fo.Add(string(backend.Name), func(ctx context.Context) error {
			return backend.Repo.UpdatePrice(ctx, id, price)
		})
	}
	if failures := fo.Execute(ctx); len(failures) > 0 {
		return 0, apperrors.Wrap(failures[0], "price update replication failed")
	}

	return previous.Price, nil
}

// Delete 按rawid删除
func (s *service) Delete(ctx context.Context, id int, selector string) (int, error) {
	// 复制删除到所有后端;NotFound与其他失败分开统计
	notFound := 0
	fo := fanout.New("delete", fanoutTimeout)
	for _, b := range s.backends {
		backend := b
		fo.Add(string(backend.Name), func(ctx context.Context) error {
			err := backend.Repo.Delete(ctx, id)
			if apperrors.IsCode(err, apperrors.ErrCodeNotFound) {
				notFound++
			}
			return err
		})
	}
	failures := fo.Execute(ctx)

	// 所有后端都没有这条记录:按不存在处理
	if notFound == len(s.backends) {
		return 0, ErrNotFound(id)
	}
	// 部分失败(包括部分NotFound):后端间已经不一致,按存储错误上报
	if len(failures) > 0 {
		return 0, apperrors.Wrap(failures[0], "delete replication failed")
	}

	metrics.IncCounter(metrics.BooksDeletedTotal)
	return id, nil
}
