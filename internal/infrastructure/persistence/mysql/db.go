package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/linwan/kimono-rental/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	// 学习要点：合理的连接池配置对性能至关重要
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	// 定义需要迁移的模型
	// 注意：这里需要使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&UserModel{},
		&StoreModel{},
		&GarmentModel{},
		&InventoryRecordModel{},
		&ThemeModel{},
		&PlanModel{},
		&PlanStoreLinkModel{},
		&BookingModel{},
		&BookingItemModel{},
	)
}

// UserModel GORM用户模型
// 顾客与商家共用一张表,以role区分
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:100;not null;comment:密码(bcrypt)"`
	Nickname  string    `gorm:"size:50;not null;comment:昵称"`
	Role      string    `gorm:"size:20;not null;default:customer;comment:角色"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// StoreModel GORM门店模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/store/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type StoreModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;comment:门店名称"`
	City      string    `gorm:"index;size:200;not null;comment:所在城市/区域"`
	IsActive  bool      `gorm:"index;default:true;comment:是否营业中"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (StoreModel) TableName() string {
	return "stores"
}

// GarmentModel GORM和服模型
type GarmentModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:200;not null;comment:款式名称"`
	Color     string    `gorm:"size:200;comment:颜色集合(逗号分隔)"`
	Pattern   string    `gorm:"size:200;comment:花纹集合(逗号分隔)"`
	Season    string    `gorm:"size:100;comment:适用季节集合(逗号分隔)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (GarmentModel) TableName() string {
	return "garments"
}

// InventoryRecordModel GORM库存记录模型
// 设计说明:
// 1. (garment_id, store_id)复合唯一索引:一个门店对一种和服只有一行容量
// 2. 此行是准入临界区的行锁对象(SELECT FOR UPDATE)
// 3. quantity是容量,不是可用量;可用量由预约台账实时推导
type InventoryRecordModel struct {
	ID        uint      `gorm:"primaryKey"`
	GarmentID uint      `gorm:"uniqueIndex:idx_garment_store;not null;comment:和服ID"`
	StoreID   uint      `gorm:"uniqueIndex:idx_garment_store;index;not null;comment:门店ID"`
	Quantity  int       `gorm:"not null;default:0;comment:容量(非负)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (InventoryRecordModel) TableName() string {
	return "inventory_records"
}

// ThemeModel GORM主题模型
type ThemeModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;comment:主题名称"`
	IsActive  bool      `gorm:"default:true;comment:是否启用"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ThemeModel) TableName() string {
	return "themes"
}

// PlanModel GORM套餐模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. Slug有唯一索引,发布后不可变
// 3. Region可为NULL(不限区域);MerchantID支持按商家查询和归属校验
type PlanModel struct {
	ID            uint      `gorm:"primaryKey"`
	Slug          string    `gorm:"uniqueIndex;size:100;not null;comment:业务唯一标识"`
	Name          string    `gorm:"size:200;not null;comment:套餐名称"`
	Price         int64     `gorm:"not null;comment:价格(分)"`
	DurationHours int       `gorm:"not null;comment:租赁时长(小时)"`
	Region        *string   `gorm:"size:200;comment:区域提示(NULL为不限区域)"`
	GarmentID     uint      `gorm:"index;not null;comment:对应和服款式ID"`
	MerchantID    uint      `gorm:"index;not null;comment:归属商家ID"`
	IsActive      bool      `gorm:"index;default:false;comment:是否上架"`
	ThemeID       *uint     `gorm:"index;comment:主题ID(可为NULL)"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (PlanModel) TableName() string {
	return "plans"
}

// PlanStoreLinkModel GORM套餐-门店关联模型
// 设计说明:
// 1. (plan_id, store_id)复合唯一索引兜底幂等:
//    重复补链时数据库层拒绝重复行,Mapper无需先查后插的竞态处理
type PlanStoreLinkModel struct {
	ID      uint `gorm:"primaryKey"`
	PlanID  uint `gorm:"uniqueIndex:idx_plan_store;index;not null;comment:套餐ID"`
	StoreID uint `gorm:"uniqueIndex:idx_plan_store;not null;comment:门店ID"`
}

// TableName 指定表名
func (PlanStoreLinkModel) TableName() string {
	return "plan_store_links"
}

// BookingModel GORM预约模型
// 教学要点:
// 1. 与BookingItemModel是一对多关系
// 2. BookingNo有唯一索引(业务主键)
// 3. Status使用int存储(节省空间,便于索引)
// 4. VisitDate使用date类型:台账按天聚合
type BookingModel struct {
	ID         uint               `gorm:"primaryKey"`
	BookingNo  string             `gorm:"uniqueIndex;size:32;not null;comment:预约号"`
	CustomerID *uint              `gorm:"index;comment:顾客ID(NULL为游客)"`
	MerchantID *uint              `gorm:"index;comment:受理商家ID"`
	VisitDate  time.Time          `gorm:"index;type:date;not null;comment:到店日期"`
	Status     int                `gorm:"index;type:tinyint;default:1;comment:预约状态(1待确认2已确认3进行中4已完成5已取消)"`
	Items      []BookingItemModel `gorm:"foreignKey:BookingID"` // 一对多关联
	CreatedAt  time.Time          `gorm:"index;comment:创建时间"`
	UpdatedAt  time.Time          `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookingModel) TableName() string {
	return "bookings"
}

// BookingItemModel GORM预约明细模型
// 教学要点:
// 1. GarmentID永远是已解析的款式(台账的统计维度)
// 2. (store_id, garment_id)复合索引服务台账聚合查询
type BookingItemModel struct {
	ID        uint  `gorm:"primaryKey"`
	BookingID uint  `gorm:"index;not null;comment:预约ID"`
	StoreID   uint  `gorm:"index:idx_ledger;not null;comment:履约门店ID"`
	PlanID    *uint `gorm:"index;comment:套餐ID(NULL为直接按款式预约)"`
	GarmentID uint  `gorm:"index:idx_ledger;not null;comment:和服款式ID"`
	Quantity  int   `gorm:"not null;comment:预约件数"`
}

// TableName 指定表名
func (BookingItemModel) TableName() string {
	return "booking_items"
}
